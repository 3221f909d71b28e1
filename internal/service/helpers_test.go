package service

import (
	"context"
	"sync"

	"carfinder/internal/model"
	"carfinder/internal/repository"
)

// catalogFunc adapts a function to the Catalog interface
type catalogFunc func(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error)

func (f catalogFunc) Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error) {
	return f(ctx, filter)
}

// recordingCatalog remembers every filter it was asked for
type recordingCatalog struct {
	Catalog
	mu      sync.Mutex
	filters []model.FilterCriteria
}

func (c *recordingCatalog) Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error) {
	c.mu.Lock()
	c.filters = append(c.filters, filter)
	c.mu.Unlock()
	return c.Catalog.Query(ctx, filter)
}

func (c *recordingCatalog) last() model.FilterCriteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[len(c.filters)-1]
}

func testInventory() []model.Vehicle {
	return []model.Vehicle{
		{Brand: "Toyota", Model: "Corolla", Year: 2021, Price: 800000, Color: "White", FuelType: "Petrol", Transmission: "Manual", Seats: 5},
		{Brand: "Toyota", Model: "Yaris", Year: 2022, Price: 900000, Color: "Red", FuelType: "Petrol", Transmission: "Automatic", Seats: 5},
		{Brand: "Toyota", Model: "Glanza", Year: 2023, Price: 1000000, Color: "Blue", FuelType: "Petrol", Transmission: "Manual", Seats: 5},
		{Brand: "Honda", Model: "City", Year: 2023, Price: 1200000, Color: "Red", FuelType: "Petrol", Transmission: "Automatic", Seats: 5},
		{Brand: "Honda", Model: "Amaze", Year: 2020, Price: 750000, Color: "Red", FuelType: "Petrol", Transmission: "Manual", Seats: 5},
		{Brand: "Hyundai", Model: "i20", Year: 2022, Price: 700000, Color: "Grey", FuelType: "Petrol", Transmission: "Manual", Seats: 5},
		{Brand: "Tata", Model: "Nexon", Year: 2023, Price: 950000, Color: "Green", FuelType: "Diesel", Transmission: "Automatic", Seats: 5},
		{Brand: "BMW", Model: "X1", Year: 2022, Price: 4500000, Color: "Black", FuelType: "Diesel", Transmission: "Automatic", Seats: 5},
	}
}

func newTestResolver(opts ...ResolverOption) (*Resolver, *recordingCatalog) {
	catalog := &recordingCatalog{Catalog: repository.NewFileCatalog(testInventory())}
	contexts := NewContextStore(repository.NewMemorySessionStore(0))
	return NewResolver(catalog, contexts, nil, opts...), catalog
}
