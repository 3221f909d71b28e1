package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carfinder/internal/model"
)

func sampleVehicles() []model.Vehicle {
	return []model.Vehicle{
		{Brand: "Toyota", Model: "Camry", Year: 2022, Price: 4200000, Color: "White", FuelType: "Hybrid", Transmission: "Automatic", Seats: 5},
		{Brand: "Honda", Model: "Civic", Year: 2021, Price: 2200000, Color: "Red", FuelType: "Petrol", Transmission: "Manual", Seats: 5},
		{Brand: "Honda", Model: "City", Year: 2023, Price: 1400000, Color: "Red", FuelType: "Petrol", Transmission: "Automatic", Seats: 5},
		{Brand: "Maruti Suzuki", Model: "Swift", Year: 2020, Price: 650000, Color: "Blue", FuelType: "Petrol", Transmission: "Manual", Seats: 5},
		{Brand: "Tata", Model: "Nexon EV", Year: 2023, Price: 1450000, Color: "Grey", FuelType: "Electric", Transmission: "Automatic", Seats: 5},
		{Brand: "Toyota", Model: "Innova", Year: 2019, Price: 1400000, Color: "Silver", FuelType: "Diesel", Transmission: "Manual", Seats: 7},
	}
}

func TestFileCatalogQuery(t *testing.T) {
	catalog := NewFileCatalog(sampleVehicles())
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    model.FilterCriteria
		wantTotal int
		wantIDs   []int64
	}{
		{
			name:      "brand substring, case-insensitive",
			filter:    model.FilterCriteria{Brand: "honda", Limit: 5, Page: 1},
			wantTotal: 2,
			wantIDs:   []int64{2, 3},
		},
		{
			name:      "maruti matches maruti suzuki",
			filter:    model.FilterCriteria{Brand: "Maruti", Limit: 5, Page: 1},
			wantTotal: 1,
			wantIDs:   []int64{4},
		},
		{
			name:      "inclusive price bounds",
			filter:    model.FilterCriteria{MinPrice: model.Float64Ptr(1400000), MaxPrice: model.Float64Ptr(2200000), Limit: 10, Page: 1},
			wantTotal: 4,
			wantIDs:   []int64{2, 3, 5, 6},
		},
		{
			name:      "excluded brand",
			filter:    model.FilterCriteria{ExcludedBrand: "toyota", Limit: 10, Page: 1},
			wantTotal: 4,
			wantIDs:   []int64{2, 3, 4, 5},
		},
		{
			name:      "gray spelling matches grey",
			filter:    model.FilterCriteria{Color: "gray", Limit: 5, Page: 1},
			wantTotal: 1,
			wantIDs:   []int64{5},
		},
		{
			name:      "search across attributes",
			filter:    model.FilterCriteria{Search: "diesel", Limit: 5, Page: 1},
			wantTotal: 1,
			wantIDs:   []int64{6},
		},
		{
			name:      "search narrowed by brand",
			filter:    model.FilterCriteria{Search: "automatic", Brand: "Toyota", Limit: 5, Page: 1},
			wantTotal: 1,
			wantIDs:   []int64{1},
		},
		{
			name:      "search honours excluded brand",
			filter:    model.FilterCriteria{Search: "petrol", ExcludedBrand: "honda", Limit: 5, Page: 1},
			wantTotal: 1,
			wantIDs:   []int64{4},
		},
		{
			name:      "stable price ascending keeps file order on ties",
			filter:    model.FilterCriteria{SortBy: model.SortPriceAscending, Limit: 3, Page: 1},
			wantTotal: 6,
			wantIDs:   []int64{4, 3, 6},
		},
		{
			name:      "second page",
			filter:    model.FilterCriteria{SortBy: model.SortYearDescending, Limit: 4, Page: 2},
			wantTotal: 6,
			wantIDs:   []int64{4, 6},
		},
		{
			name:      "page past the end",
			filter:    model.FilterCriteria{Limit: 5, Page: 3},
			wantTotal: 6,
			wantIDs:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := catalog.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)

			ids := []int64{}
			for _, v := range page.Results {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFileCatalogDefaultsPagination(t *testing.T) {
	catalog := NewFileCatalog(sampleVehicles())

	page, err := catalog.Query(context.Background(), model.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, model.DefaultLimit, page.Limit)
	assert.Len(t, page.Results, model.DefaultLimit)
}

func TestFileCatalogGet(t *testing.T) {
	catalog := NewFileCatalog(sampleVehicles())

	v, err := catalog.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Civic", v.Model)

	_, err = catalog.Get(context.Background(), 99)
	assert.ErrorIs(t, err, model.ErrVehicleNotFound)
}

func TestFileCatalogCancelledContext(t *testing.T) {
	catalog := NewFileCatalog(sampleVehicles())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := catalog.Query(ctx, model.NewFilterCriteria())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFileCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"brand":"Kia","model":"Seltos","year":2022,"price":1600000,"color":"Black","fuelType":"Diesel","transmission":"Automatic","seats":5}
	]`), 0o600))

	catalog, err := LoadFileCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())

	_, err = LoadFileCatalog(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
