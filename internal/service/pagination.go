package service

import (
	"strings"

	"carfinder/internal/model"
)

// PageDecision is the outcome of classifying a request against the previous turn
type PageDecision struct {
	Kind   model.TurnKind
	Filter model.FilterCriteria // effective filter for continuation and jump turns
}

// ResolvePagination classifies a request as a continuation, an explicit page
// jump or a new query.
//
//   - continuation: no structured fields, no free text, no page beyond 1.
//     The previous filter is reused with page+1.
//   - jump: page beyond 1 (or a "page N" phrase) and nothing else. The previous
//     filter is reused with that page.
//   - new query: anything else. Filter is left zero and built by the caller.
//
// Without a previous filter, continuation and jump both start from an
// unfiltered query: continuation lands on page 1, a jump lands on page N.
func ResolvePagination(req model.InventoryRequest, ex model.Extraction, last *model.FilterCriteria) PageDecision {
	hasText := strings.TrimSpace(req.Search) != "" && ex.Pagination == nil
	if req.HasStructuredFields() || hasText {
		return PageDecision{Kind: model.TurnNewQuery}
	}

	requestedPage := 0
	if req.Page != nil {
		requestedPage = *req.Page
	}

	kind := model.TurnContinuation
	switch {
	case ex.Pagination != nil && !ex.Pagination.Next:
		kind = model.TurnJump
		requestedPage = ex.Pagination.Page
	case ex.Pagination == nil && requestedPage > 1:
		kind = model.TurnJump
	}

	var filter model.FilterCriteria
	if last != nil {
		filter = last.Clone()
	} else {
		filter = model.NewFilterCriteria()
	}

	if kind == model.TurnJump {
		filter.Page = requestedPage
	} else if last != nil {
		filter.Page = last.Page + 1
	} else {
		filter.Page = model.DefaultPage
	}

	switch {
	case req.Limit != nil:
		filter.Limit = *req.Limit
	case ex.Pagination != nil && ex.Pagination.Limit > 0:
		filter.Limit = ex.Pagination.Limit
	}

	filter.Normalize()
	return PageDecision{Kind: kind, Filter: filter}
}
