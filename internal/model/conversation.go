package model

import "time"

// DefaultConversationID is used when the caller supplies none
const DefaultConversationID = "default"

// PriceRange is a remembered price window. Derived ranges come from observed
// results rather than from bounds the user stated.
type PriceRange struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Derived bool     `json:"derived"`
}

// PriceStats summarises the prices of a result set. All fields are nil for an empty set.
type PriceStats struct {
	Min *int64 `json:"min"`
	Max *int64 `json:"max"`
	Avg *int64 `json:"avg"`
}

// Empty reports whether the stats were computed over no results
func (s PriceStats) Empty() bool {
	return s.Min == nil && s.Max == nil && s.Avg == nil
}

// ConversationalContext is the cross-turn memory of one conversation
type ConversationalContext struct {
	LastFilter      *FilterCriteria `json:"lastFilter,omitempty"`
	LastPriceRange  *PriceRange     `json:"lastPriceRange,omitempty"`
	LastBrand       string          `json:"lastBrand,omitempty"`
	LastResultStats *PriceStats     `json:"lastResultStats,omitempty"`
}

// Clone returns a deep copy so snapshots can be handed out without sharing state
func (c ConversationalContext) Clone() ConversationalContext {
	out := ConversationalContext{LastBrand: c.LastBrand}
	if c.LastFilter != nil {
		f := c.LastFilter.Clone()
		out.LastFilter = &f
	}
	if c.LastPriceRange != nil {
		r := *c.LastPriceRange
		if r.Min != nil {
			r.Min = Float64Ptr(*r.Min)
		}
		if r.Max != nil {
			r.Max = Float64Ptr(*r.Max)
		}
		out.LastPriceRange = &r
	}
	if c.LastResultStats != nil {
		s := *c.LastResultStats
		out.LastResultStats = &s
	}
	return out
}

// ConversationSession pairs a conversation id with its context
type ConversationSession struct {
	ID        string                `json:"id"`
	Context   ConversationalContext `json:"context"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// TurnRecord describes one resolved turn for the audit journal
type TurnRecord struct {
	ConversationID string          `json:"conversationId"`
	Kind           TurnKind        `json:"kind"`
	Filter         *FilterCriteria `json:"filter,omitempty"`
	CompareModels  []string        `json:"compareModels,omitempty"`
	Total          int             `json:"total"`
	Stats          *PriceStats     `json:"stats,omitempty"`
	Error          string          `json:"error,omitempty"`
	DurationMs     int64           `json:"durationMs"`
	ResolvedAt     time.Time       `json:"resolvedAt"`
}
