package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"carfinder/internal/model"
	"carfinder/internal/utils"
)

// FileCatalog serves vehicles from an in-memory list, usually loaded from an
// inventory file. Results keep file order among equal sort keys. The list is never
// modified after construction, so queries need no locking.
type FileCatalog struct {
	vehicles []model.Vehicle
}

// NewFileCatalog creates a catalog over the given vehicles. Vehicles without an
// id are numbered by position, starting at 1.
func NewFileCatalog(vehicles []model.Vehicle) *FileCatalog {
	list := make([]model.Vehicle, len(vehicles))
	copy(list, vehicles)
	for i := range list {
		if list[i].ID == 0 {
			list[i].ID = int64(i + 1)
		}
	}
	return &FileCatalog{vehicles: list}
}

// LoadFileCatalog reads an inventory file in any format LoadVehicles accepts
func LoadFileCatalog(path string) (*FileCatalog, error) {
	vehicles, err := LoadVehicles(path)
	if err != nil {
		return nil, err
	}
	return NewFileCatalog(vehicles), nil
}

// Len returns the number of vehicles held
func (c *FileCatalog) Len() int {
	return len(c.vehicles)
}

// Query filters, sorts and paginates the catalog
func (c *FileCatalog) Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.Limit < 1 {
		filter.Limit = model.DefaultLimit
	}
	if filter.Page < 1 {
		filter.Page = model.DefaultPage
	}

	matched := make([]model.Vehicle, 0, len(c.vehicles))
	for _, v := range c.vehicles {
		if matches(v, filter) {
			matched = append(matched, v)
		}
	}

	sortVehicles(matched, filter.SortBy)

	start := filter.Offset()
	end := start + filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return &model.ResultPage{
		Total:   len(matched),
		Page:    filter.Page,
		Limit:   filter.Limit,
		Results: matched[start:end],
	}, nil
}

// Get returns one vehicle by id
func (c *FileCatalog) Get(ctx context.Context, id int64) (*model.Vehicle, error) {
	for _, v := range c.vehicles {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, model.ErrVehicleNotFound
}

func matches(v model.Vehicle, f model.FilterCriteria) bool {
	if f.Search != "" && !matchesSearch(v, f.Search) {
		return false
	}
	if f.Brand != "" && !utils.ContainsFold(v.Brand, f.Brand) {
		return false
	}
	if f.ExcludedBrand != "" && strings.EqualFold(v.Brand, f.ExcludedBrand) {
		return false
	}
	if f.Model != "" && !utils.ContainsFold(v.Model, f.Model) {
		return false
	}
	if f.Color != "" && !utils.FuzzyMatchAttribute(f.Color, v.Color) {
		return false
	}
	if f.FuelType != "" && !utils.FuzzyMatchAttribute(f.FuelType, v.FuelType) {
		return false
	}
	if f.Transmission != "" && !utils.FuzzyMatchAttribute(f.Transmission, v.Transmission) {
		return false
	}
	if f.MinPrice != nil && float64(v.Price) < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && float64(v.Price) > *f.MaxPrice {
		return false
	}
	return true
}

// matchesSearch looks for the term in any attribute
func matchesSearch(v model.Vehicle, term string) bool {
	fields := []string{
		v.Brand, v.Model, v.Color, v.FuelType, v.Transmission,
		strconv.Itoa(v.Year), strconv.FormatInt(v.Price, 10), strconv.Itoa(v.Seats),
	}
	for _, field := range fields {
		if utils.ContainsFold(field, term) {
			return true
		}
	}
	return false
}

func sortVehicles(vehicles []model.Vehicle, key model.SortKey) {
	var less func(a, b model.Vehicle) bool
	switch key {
	case model.SortPriceAscending:
		less = func(a, b model.Vehicle) bool { return a.Price < b.Price }
	case model.SortPriceDescending:
		less = func(a, b model.Vehicle) bool { return a.Price > b.Price }
	case model.SortYearAscending:
		less = func(a, b model.Vehicle) bool { return a.Year < b.Year }
	case model.SortYearDescending:
		less = func(a, b model.Vehicle) bool { return a.Year > b.Year }
	default:
		return
	}
	sort.SliceStable(vehicles, func(i, j int) bool { return less(vehicles[i], vehicles[j]) })
}
