package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"carfinder/internal/model"
)

var camry = model.Vehicle{Brand: "Toyota", Model: "Camry", Year: 2022, Price: 4200000, Color: "White", FuelType: "Hybrid", Transmission: "Automatic", Seats: 5}

func TestFormatVehicle(t *testing.T) {
	want := "2022 Toyota Camry\n" +
		"  • Color: White\n" +
		"  • Price: ₹4,200,000\n" +
		"  • Fuel Type: Hybrid\n" +
		"  • Transmission: Automatic\n" +
		"  • Seats: 5"
	assert.Equal(t, want, FormatVehicle(camry))
}

func TestComposeResponse_FirstPageOfSeveral(t *testing.T) {
	filter := model.FilterCriteria{Brand: "Toyota", Limit: 2, Page: 1}
	page := &model.ResultPage{Total: 7, Page: 1, Limit: 2, Results: []model.Vehicle{camry, camry}}

	text := ComposeResponse(page, filter)

	assert.True(t, strings.HasPrefix(text, "Found Toyota cars (7 total, page 1 of 4, showing 2):\n\n2022 Toyota Camry"))
	assert.Contains(t, text, "\n\n---\nShowing page 1 of 4. For more results with the same filters, ask for \"next page\" or \"page 2\".")
	assert.True(t, strings.HasSuffix(text, "\nTo see all 7 results at once, ask for \"show all 7 cars\"."))
}

func TestComposeResponse_LastPage(t *testing.T) {
	filter := model.FilterCriteria{Color: "red", MinPrice: model.Float64Ptr(500000), MaxPrice: model.Float64Ptr(1000000), Limit: 2, Page: 3}
	page := &model.ResultPage{Total: 5, Page: 3, Limit: 2, Results: []model.Vehicle{camry}}

	text := ComposeResponse(page, filter)

	assert.True(t, strings.HasPrefix(text, "Found red colored cars priced between ₹500,000 and ₹1,000,000 (5 total, page 3 of 3, showing 1):"))
	assert.True(t, strings.HasSuffix(text, "\n\n---\nEnd of results. You've viewed all 5 cars matching your criteria."))
	assert.NotContains(t, text, "next page")
}

func TestComposeResponse_SinglePage(t *testing.T) {
	page := &model.ResultPage{Total: 1, Page: 1, Limit: 5, Results: []model.Vehicle{camry}}
	text := ComposeResponse(page, model.FilterCriteria{Search: "hybrid", Limit: 5, Page: 1})

	assert.Equal(t, "Found cars matching \"hybrid\" (1 result):\n\n"+FormatVehicle(camry), text)
}

func TestComposeResponse_SearchWithBrand(t *testing.T) {
	page := &model.ResultPage{Total: 1, Page: 1, Limit: 5, Results: []model.Vehicle{camry}}
	text := ComposeResponse(page, model.FilterCriteria{Search: "hybrid", Brand: "Toyota", Limit: 5, Page: 1})

	assert.True(t, strings.HasPrefix(text, "Found Toyota cars matching \"hybrid\" (1 result):"), text)
}

func TestComposeResponse_PastTheEnd(t *testing.T) {
	page := &model.ResultPage{Total: 6, Page: 4, Limit: 2}
	assert.Equal(t, "No more results. You've viewed all 6 cars matching your criteria.",
		ComposeResponse(page, model.FilterCriteria{Limit: 2, Page: 4}))
}

func TestComposeEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter model.FilterCriteria
		want   string
	}{
		{
			name:   "premium brand under budget",
			filter: model.FilterCriteria{Brand: "BMW", MaxPrice: model.Float64Ptr(1000000)},
			want: "We don't have any BMW vehicles under ₹1,000,000. Luxury brands like BMW typically start at higher price points.\n\n" +
				"Consider:\n" +
				"- Increasing your budget to ₹20,00,000+ for BMW\n" +
				"- Looking at pre-owned BMW vehicles\n" +
				"- Exploring more affordable brands like Maruti Suzuki, Tata, or Hyundai in this price range",
		},
		{
			name:   "regular brand under budget",
			filter: model.FilterCriteria{Brand: "Honda", MaxPrice: model.Float64Ptr(300000)},
			want:   "We don't have any Honda vehicles under ₹300,000. Try a higher price range or consider other brands like Maruti Suzuki, Tata, or Hyundai in this price range.",
		},
		{
			name:   "brand only",
			filter: model.FilterCriteria{Brand: "Kia", Color: "pink"},
			want:   "No Kia vehicles found with your criteria. Try removing some filters or try another brand.",
		},
		{
			name:   "budget only",
			filter: model.FilterCriteria{MaxPrice: model.Float64Ptr(100000)},
			want:   "We don't have vehicles under ₹100,000 matching your criteria. Try increasing your budget or modifying your search.",
		},
		{
			name:   "generic",
			filter: model.FilterCriteria{Color: "pink"},
			want:   "No cars found matching your criteria. Try adjusting your filters or providing less specific requirements.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeEmpty(tt.filter))
			assert.Equal(t, tt.want, ComposeResponse(&model.ResultPage{}, tt.filter))
		})
	}
}

func TestComposeError(t *testing.T) {
	assert.Equal(t, "Error fetching car inventory: connection refused", ComposeError(errors.New("connection refused")))
}
