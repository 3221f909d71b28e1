package model

import "strings"

// InventoryRequest is the argument set of the carInventory tool.
// Every field is optional; prices may arrive as numbers or formatted strings.
type InventoryRequest struct {
	Brand          string   `json:"brand,omitempty"`
	Model          string   `json:"model,omitempty"`
	MinPrice       any      `json:"minPrice,omitempty"`
	MaxPrice       any      `json:"maxPrice,omitempty"`
	Color          string   `json:"color,omitempty"`
	FuelType       string   `json:"fuelType,omitempty"`
	Transmission   string   `json:"transmission,omitempty"`
	SortBy         string   `json:"sortBy,omitempty"`
	Search         string   `json:"search,omitempty"`
	Limit          *int     `json:"limit,omitempty"`
	Page           *int     `json:"page,omitempty"`
	CompareModels  []string `json:"compareModels,omitempty"`
	ConversationID string   `json:"conversationId,omitempty"`
}

// HasStructuredFields reports whether any filter or sort field was given explicitly.
// Limit and page are pagination controls and do not count.
func (r InventoryRequest) HasStructuredFields() bool {
	return strings.TrimSpace(r.Brand) != "" ||
		strings.TrimSpace(r.Model) != "" ||
		strings.TrimSpace(r.Color) != "" ||
		strings.TrimSpace(r.FuelType) != "" ||
		strings.TrimSpace(r.Transmission) != "" ||
		strings.TrimSpace(r.SortBy) != "" ||
		hasValue(r.MinPrice) ||
		hasValue(r.MaxPrice)
}

// IsComparison reports whether the request asks for a side-by-side table
func (r InventoryRequest) IsComparison() bool {
	return len(r.CompareModels) > 0
}

func hasValue(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// PaginationDirective is a whole-text paging phrase such as "next page" or "page 3"
type PaginationDirective struct {
	Next  bool // advance one page from the previous query
	Page  int  // explicit target page when Next is false
	Limit int  // page size named in the phrase, 0 if none
}

// Extraction holds everything the free-text extractor recognised
type Extraction struct {
	Brand        string
	Model        string
	MinPrice     *float64
	MaxPrice     *float64
	Color        string
	FuelType     string
	Transmission string
	SortBy       SortKey
	Limit        int

	ReferencesLastPriceRange bool
	ReferencesOtherBrand     bool

	Pagination *PaginationDirective
}

// Empty reports whether nothing at all was recognised
func (e Extraction) Empty() bool {
	return e.Brand == "" && e.Model == "" && e.MinPrice == nil && e.MaxPrice == nil &&
		e.Color == "" && e.FuelType == "" && e.Transmission == "" && e.SortBy == SortNone &&
		e.Limit == 0 && !e.ReferencesLastPriceRange && !e.ReferencesOtherBrand && e.Pagination == nil
}

// TurnKind classifies how a request relates to the previous one
type TurnKind string

const (
	TurnNewQuery     TurnKind = "new"
	TurnContinuation TurnKind = "continuation"
	TurnJump         TurnKind = "jump"
	TurnComparison   TurnKind = "compare"
)
