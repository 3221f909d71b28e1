package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"carfinder/internal/model"
)

// SessionStore persists conversation sessions by id. Load returns
// model.ErrSessionNotFound for unknown ids.
type SessionStore interface {
	Load(ctx context.Context, id string) (*model.ConversationSession, error)
	Save(ctx context.Context, session *model.ConversationSession) error
	Delete(ctx context.Context, id string) error
}

// Derived and reference range factors
const (
	derivedRangeLow  = 0.9
	derivedRangeHigh = 1.1
	averageRangeLow  = 0.7
	averageRangeHigh = 1.3
)

// ContextStore reads and updates the conversational context of each conversation
type ContextStore struct {
	sessions SessionStore
	now      func() time.Time
}

// NewContextStore creates a context store over a session store
func NewContextStore(sessions SessionStore) *ContextStore {
	return &ContextStore{sessions: sessions, now: time.Now}
}

// Session loads a session, creating an empty one for unknown ids
func (s *ContextStore) Session(ctx context.Context, id string) (*model.ConversationSession, error) {
	session, err := s.sessions.Load(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		now := s.now()
		return &model.ConversationSession{ID: id, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return session, nil
}

// Snapshot returns a copy of the current context of a conversation
func (s *ContextStore) Snapshot(ctx context.Context, id string) (model.ConversationalContext, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return model.ConversationalContext{}, err
	}
	return session.Context.Clone(), nil
}

// Save persists the session and stamps its update time
func (s *ContextStore) Save(ctx context.Context, session *model.ConversationSession) error {
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// Reset drops everything remembered for a conversation
func (s *ContextStore) Reset(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		return fmt.Errorf("failed to reset session %s: %w", id, err)
	}
	return nil
}

// Update records an executed query and the stats of what it returned. stats is
// nil when the query matched nothing.
func (s *ContextStore) Update(ctx context.Context, id string, filter model.FilterCriteria, stats *model.PriceStats) error {
	session, err := s.Session(ctx, id)
	if err != nil {
		return err
	}
	ApplyContextUpdate(&session.Context, filter, stats)
	return s.Save(ctx, session)
}

// ApplyContextUpdate mutates c to reflect an executed query.
//
// The last filter is always replaced. Explicit price bounds replace the
// remembered range. Without explicit bounds, a range derived from the observed
// prices (10% either side) is stored unless an explicit range is already held.
func ApplyContextUpdate(c *model.ConversationalContext, filter model.FilterCriteria, stats *model.PriceStats) {
	executed := filter.Clone()
	c.LastFilter = &executed

	if filter.Brand != "" {
		c.LastBrand = filter.Brand
	}

	hasStats := stats != nil && !stats.Empty()
	if hasStats {
		st := *stats
		c.LastResultStats = &st
	}

	switch {
	case filter.HasPriceBounds():
		c.LastPriceRange = &model.PriceRange{
			Min: copyFloat(filter.MinPrice),
			Max: copyFloat(filter.MaxPrice),
		}
	case hasStats && (c.LastPriceRange == nil || c.LastPriceRange.Derived):
		c.LastPriceRange = &model.PriceRange{
			Min:     model.Float64Ptr(math.Round(float64(*stats.Min) * derivedRangeLow)),
			Max:     model.Float64Ptr(math.Round(float64(*stats.Max) * derivedRangeHigh)),
			Derived: true,
		}
	}
}

// ReferencedPriceRange resolves "same price range" against the context: an
// explicit range first, then 30% either side of the last average, then a
// derived range. ok is false when nothing is remembered.
func ReferencedPriceRange(c model.ConversationalContext) (minPrice, maxPrice *float64, ok bool) {
	if r := c.LastPriceRange; r != nil && !r.Derived && (r.Min != nil || r.Max != nil) {
		return copyFloat(r.Min), copyFloat(r.Max), true
	}
	if st := c.LastResultStats; st != nil && st.Avg != nil {
		avg := float64(*st.Avg)
		return model.Float64Ptr(math.Round(avg * averageRangeLow)), model.Float64Ptr(math.Round(avg * averageRangeHigh)), true
	}
	if r := c.LastPriceRange; r != nil && (r.Min != nil || r.Max != nil) {
		return copyFloat(r.Min), copyFloat(r.Max), true
	}
	return nil, nil, false
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
