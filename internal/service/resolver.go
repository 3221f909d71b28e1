package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"carfinder/internal/model"
	"carfinder/internal/utils"
	"carfinder/pkg/logger"
	"carfinder/pkg/metrics"
)

// TurnRecorder receives a record of every resolved turn. Recording never
// affects the response.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, rec model.TurnRecord) error
}

// Resolver turns one inventory request into display text, using and updating
// the conversation's context.
type Resolver struct {
	extractor *Extractor
	contexts  *ContextStore
	catalog   Catalog
	comparer  *Comparer
	recorders []TurnRecorder
	log       *logger.Logger

	recordTimeout time.Duration
	locks         keyedMutex
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithRecorders adds turn recorders
func WithRecorders(recorders ...TurnRecorder) ResolverOption {
	return func(r *Resolver) {
		for _, rec := range recorders {
			if rec != nil {
				r.recorders = append(r.recorders, rec)
			}
		}
	}
}

// WithRecordTimeout bounds each recorder call
func WithRecordTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.recordTimeout = d
		}
	}
}

// NewResolver creates a resolver
func NewResolver(catalog Catalog, contexts *ContextStore, log *logger.Logger, opts ...ResolverOption) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	r := &Resolver{
		extractor:     NewExtractor(),
		contexts:      contexts,
		catalog:       catalog,
		comparer:      NewComparer(catalog, log),
		log:           log,
		recordTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Contexts exposes the context store for inspection and reset endpoints
func (r *Resolver) Contexts() *ContextStore {
	return r.contexts
}

// Resolve answers a request. Failures are rendered as text; the error return
// is reserved for session storage failures the caller may want to surface.
func (r *Resolver) Resolve(ctx context.Context, req model.InventoryRequest) (string, error) {
	start := time.Now()

	convID := strings.TrimSpace(req.ConversationID)
	if convID == "" {
		convID = model.DefaultConversationID
	}

	unlock := r.locks.Lock(convID)
	defer unlock()

	session, err := r.contexts.Session(ctx, convID)
	if err != nil {
		return ComposeError(err), err
	}

	log := r.log.With(zap.String("conversation_id", convID))

	if req.IsComparison() {
		return r.compare(ctx, log, session, req.CompareModels, start)
	}

	ex := r.extractor.Extract(req.Search)
	decision := ResolvePagination(req, ex, session.Context.LastFilter)

	filter := decision.Filter
	if decision.Kind == model.TurnNewQuery {
		filter = r.buildFilter(req, ex, session.Context)
	}

	log.Debug("resolved turn",
		zap.String("kind", string(decision.Kind)),
		zap.Any("filter", filter),
	)

	page, err := r.catalog.Query(ctx, filter)
	if err != nil {
		log.Error("catalog query failed", zap.String("kind", string(decision.Kind)), zap.Error(err))
		r.finish(convID, decision.Kind, &filter, nil, 0, nil, err, start)
		return ComposeError(err), nil
	}

	var stats *model.PriceStats
	if len(page.Results) > 0 {
		st := ComputePriceStats(page.Prices())
		stats = &st
	} else {
		metrics.EmptyResultsTotal.Inc()
	}

	ApplyContextUpdate(&session.Context, filter, stats)
	if err := r.contexts.Save(ctx, session); err != nil {
		log.Error("failed to persist conversation context", zap.Error(err))
	}

	log.Info("turn resolved",
		zap.String("kind", string(decision.Kind)),
		zap.Int("total", page.Total),
		zap.Int("page", filter.Page),
		zap.Int("returned", len(page.Results)),
	)

	r.finish(convID, decision.Kind, &filter, nil, page.Total, stats, nil, start)
	return ComposeResponse(page, filter), nil
}

func (r *Resolver) compare(ctx context.Context, log *logger.Logger, session *model.ConversationSession, models []string, start time.Time) (string, error) {
	text, vehicles := r.comparer.Compare(ctx, models)

	session.Context.LastFilter = nil
	if err := r.contexts.Save(ctx, session); err != nil {
		log.Error("failed to persist conversation context", zap.Error(err))
	}

	log.Info("comparison resolved", zap.Strings("models", models), zap.Int("found", len(vehicles)))
	r.finish(session.ID, model.TurnComparison, nil, models, len(vehicles), nil, nil, start)
	return text, nil
}

// buildFilter starts from the explicit request fields and fills the gaps from
// the extracted text, then resolves references to the previous turn.
func (r *Resolver) buildFilter(req model.InventoryRequest, ex model.Extraction, prev model.ConversationalContext) model.FilterCriteria {
	filter := model.NewFilterCriteria()

	filter.Brand = firstNonEmpty(CanonicalBrand(req.Brand), ex.Brand)
	filter.Model = firstNonEmpty(strings.TrimSpace(req.Model), ex.Model)
	filter.Color = firstNonEmpty(strings.TrimSpace(req.Color), ex.Color)
	filter.FuelType = firstNonEmpty(strings.TrimSpace(req.FuelType), ex.FuelType)
	filter.Transmission = firstNonEmpty(strings.TrimSpace(req.Transmission), ex.Transmission)

	filter.MinPrice = utils.NormalizePricePtr(req.MinPrice)
	if filter.MinPrice == nil {
		filter.MinPrice = ex.MinPrice
	}
	filter.MaxPrice = utils.NormalizePricePtr(req.MaxPrice)
	if filter.MaxPrice == nil {
		filter.MaxPrice = ex.MaxPrice
	}

	filter.SortBy = model.ParseSortKey(req.SortBy)
	if filter.SortBy == model.SortNone {
		filter.SortBy = ex.SortBy
	}

	switch {
	case req.Limit != nil:
		filter.Limit = *req.Limit
	case ex.Limit > 0:
		filter.Limit = ex.Limit
	}
	if req.Page != nil {
		filter.Page = *req.Page
	}

	if ex.ReferencesLastPriceRange && !filter.HasPriceBounds() {
		if minPrice, maxPrice, ok := ReferencedPriceRange(prev); ok {
			filter.MinPrice, filter.MaxPrice = minPrice, maxPrice
		}
	}
	if ex.ReferencesOtherBrand && prev.LastBrand != "" {
		filter.ExcludedBrand = prev.LastBrand
		if strings.EqualFold(filter.Brand, prev.LastBrand) {
			filter.Brand = ""
		}
	}

	// Keep the raw text for full-text search only when nothing was understood
	if ex.Empty() {
		filter.Search = strings.TrimSpace(req.Search)
	}

	filter.Normalize()
	return filter
}

func (r *Resolver) finish(convID string, kind model.TurnKind, filter *model.FilterCriteria, models []string, total int, stats *model.PriceStats, err error, start time.Time) {
	elapsed := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordTurn(string(kind), outcome, elapsed.Seconds())

	if len(r.recorders) == 0 {
		return
	}

	rec := model.TurnRecord{
		ConversationID: convID,
		Kind:           kind,
		Filter:         filter,
		CompareModels:  models,
		Total:          total,
		Stats:          stats,
		DurationMs:     elapsed.Milliseconds(),
		ResolvedAt:     time.Now().UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
	}

	// Non-blocking
	go func() {
		for _, recorder := range r.recorders {
			ctx, cancel := context.WithTimeout(context.Background(), r.recordTimeout)
			if err := recorder.RecordTurn(ctx, rec); err != nil {
				name := fmt.Sprintf("%T", recorder)
				metrics.RecorderErrorsTotal.WithLabelValues(name).Inc()
				r.log.Warn("failed to record turn", zap.String("recorder", name), zap.String("conversation_id", convID), zap.Error(err))
			}
			cancel()
		}
	}()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// keyedMutex serialises work per key and frees entries nobody holds
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
