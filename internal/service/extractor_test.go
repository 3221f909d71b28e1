package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carfinder/internal/model"
)

func TestExtractor_Attributes(t *testing.T) {
	ex := NewExtractor().Extract("Show 5 red Honda cars")

	assert.Equal(t, "Honda", ex.Brand)
	assert.Equal(t, "red", ex.Color)
	assert.Equal(t, 5, ex.Limit)
	assert.Nil(t, ex.Pagination)
	assert.False(t, ex.Empty())
}

func TestExtractor_BrandSpellings(t *testing.T) {
	tests := map[string]string{
		"any maruti suzuki under 6 lakh": "Maruti Suzuki",
		"maruti hatchback":               "Maruti Suzuki",
		"a used VW":                      "Volkswagen",
		"bmw or audi":                    "BMW",
	}
	e := NewExtractor()
	for text, want := range tests {
		t.Run(text, func(t *testing.T) {
			assert.Equal(t, want, e.Extract(text).Brand)
		})
	}
}

func TestExtractor_PriceBounds(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantMin *float64
		wantMax *float64
	}{
		{"under lakh", "cars under 10 lakh", nil, model.Float64Ptr(1_000_000)},
		{"under plain digits", "toyota below ₹8,00,000", nil, model.Float64Ptr(800_000)},
		{"above crore", "something above 1 crore", model.Float64Ptr(10_000_000), nil},
		{"between shared multiplier", "between 5 and 10 lakh", model.Float64Ptr(500_000), model.Float64Ptr(1_000_000)},
		{"between reversed", "between 12 lakh and 6 lakh", model.Float64Ptr(600_000), model.Float64Ptr(1_200_000)},
		{"thousands", "under 900k", nil, model.Float64Ptr(900_000)},
		{"rs dot prefix", "honda under rs. 9,00,000", nil, model.Float64Ptr(900_000)},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := e.Extract(tt.text)
			assert.Equal(t, tt.wantMin, ex.MinPrice)
			assert.Equal(t, tt.wantMax, ex.MaxPrice)
		})
	}
}

func TestExtractor_PriceTerms(t *testing.T) {
	e := NewExtractor()

	ex := e.Extract("cheapest")
	assert.Equal(t, model.SortPriceAscending, ex.SortBy)
	assert.Equal(t, 1, ex.Limit)

	ex = e.Extract("cheap diesel cars")
	assert.Equal(t, model.SortPriceAscending, ex.SortBy)
	assert.Equal(t, 0, ex.Limit)
	assert.Equal(t, "diesel", ex.FuelType)

	ex = e.Extract("the most expensive")
	assert.Equal(t, model.SortPriceDescending, ex.SortBy)
	assert.Equal(t, 1, ex.Limit)

	// cheap wins over expensive
	ex = e.Extract("affordable but not too pricey")
	assert.Equal(t, model.SortPriceAscending, ex.SortBy)
}

func TestExtractor_References(t *testing.T) {
	ex := NewExtractor().Extract("same price range but another brand")

	assert.True(t, ex.ReferencesLastPriceRange)
	assert.True(t, ex.ReferencesOtherBrand)
	assert.Empty(t, ex.Brand)
}

func TestExtractor_Pagination(t *testing.T) {
	tests := []struct {
		text string
		want *model.PaginationDirective
	}{
		{"next page", &model.PaginationDirective{Next: true}},
		{"Next", &model.PaginationDirective{Next: true}},
		{"show more", &model.PaginationDirective{Next: true}},
		{"next 10 cars", &model.PaginationDirective{Next: true, Limit: 10}},
		{"page 3", &model.PaginationDirective{Page: 3}},
		{"go to page 2 please", &model.PaginationDirective{Page: 2}},
		{"show all 8 cars", &model.PaginationDirective{Page: 1, Limit: 8}},
		{"Show me all results", &model.PaginationDirective{Page: 1, Limit: model.MaxLimit}},
		{"next week's red toyota", nil},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ex := e.Extract(tt.text)
			assert.Equal(t, tt.want, ex.Pagination)
			if tt.want != nil {
				assert.Empty(t, ex.Brand)
				assert.Zero(t, ex.Limit)
			}
		})
	}
}

func TestExtractor_Unrecognised(t *testing.T) {
	e := NewExtractor()
	assert.True(t, e.Extract("").Empty())
	assert.True(t, e.Extract("family car with a big boot").Empty())
}

func TestExtractor_RuleOrder(t *testing.T) {
	names := NewExtractor().RuleNames()
	require.NotEmpty(t, names)
	assert.Equal(t, "brand", names[0])
	assert.Equal(t, "references", names[len(names)-1])
}
