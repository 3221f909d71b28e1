package model

import "strings"

// SortKey selects the catalog ordering
type SortKey string

const (
	SortNone            SortKey = ""
	SortPriceAscending  SortKey = "price-asc"
	SortPriceDescending SortKey = "price-desc"
	SortYearAscending   SortKey = "year-asc"
	SortYearDescending  SortKey = "year-desc"
)

// ParseSortKey accepts the short wire form and the long spelled-out form.
// Unknown values return SortNone.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price-asc", "price-ascending":
		return SortPriceAscending
	case "price-desc", "price-descending":
		return SortPriceDescending
	case "year-asc", "year-ascending":
		return SortYearAscending
	case "year-desc", "year-descending":
		return SortYearDescending
	default:
		return SortNone
	}
}

// Pagination defaults shared by every entry point
const (
	DefaultLimit = 5
	MaxLimit     = 10
	DefaultPage  = 1
)

// FilterCriteria is the structured query sent to the catalog
type FilterCriteria struct {
	Brand         string   `json:"brand,omitempty"`
	Model         string   `json:"model,omitempty"`
	MinPrice      *float64 `json:"minPrice,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty"`
	Color         string   `json:"color,omitempty"`
	FuelType      string   `json:"fuelType,omitempty"`
	Transmission  string   `json:"transmission,omitempty"`
	ExcludedBrand string   `json:"excludedBrand,omitempty"`
	SortBy        SortKey  `json:"sortBy,omitempty"`
	Search        string   `json:"search,omitempty"`
	Limit         int      `json:"limit"`
	Page          int      `json:"page"`
}

// NewFilterCriteria returns an unfiltered first page with the default limit
func NewFilterCriteria() FilterCriteria {
	return FilterCriteria{Limit: DefaultLimit, Page: DefaultPage}
}

// ClampLimit maps a requested page size into [1, MaxLimit]. Zero means "not given".
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Normalize applies default and clamp rules in place and returns the receiver
func (f *FilterCriteria) Normalize() *FilterCriteria {
	f.Limit = ClampLimit(f.Limit)
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	return f
}

// Clone returns a deep copy
func (f FilterCriteria) Clone() FilterCriteria {
	out := f
	if f.MinPrice != nil {
		v := *f.MinPrice
		out.MinPrice = &v
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		out.MaxPrice = &v
	}
	return out
}

// HasPriceBounds reports whether either price bound is set
func (f FilterCriteria) HasPriceBounds() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// IsUnfiltered reports whether no attribute, price, search or sort constraint is set
func (f FilterCriteria) IsUnfiltered() bool {
	return f.Brand == "" && f.Model == "" && f.Color == "" && f.FuelType == "" &&
		f.Transmission == "" && f.ExcludedBrand == "" && f.Search == "" &&
		f.SortBy == SortNone && !f.HasPriceBounds()
}

// Offset returns the zero-based index of the first result on the page
func (f FilterCriteria) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Float64Ptr is a small helper for optional numeric fields
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr is a small helper for optional numeric fields
func IntPtr(v int) *int {
	return &v
}
