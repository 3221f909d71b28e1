package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"carfinder/internal/model"
	"carfinder/internal/utils"
	"carfinder/pkg/logger"
)

// Comparison messages
const (
	ComparisonTooFewModels = "Please name at least two car models to compare, for example \"compare Camry and Civic\"."
	ComparisonNotEnough    = "Could not find enough cars to compare. Please check the model names and try again."
)

// Comparer looks up one vehicle per model and renders them side by side
type Comparer struct {
	catalog Catalog
	log     *logger.Logger
}

// NewComparer creates a comparison engine over a catalog
func NewComparer(catalog Catalog, log *logger.Logger) *Comparer {
	return &Comparer{catalog: catalog, log: log}
}

// Lookup resolves each model concurrently and returns the vehicles found, in
// the order the models were given. Misses and failed lookups are dropped.
func (c *Comparer) Lookup(ctx context.Context, models []string) []model.Vehicle {
	slots := make([]*model.Vehicle, len(models))

	var wg sync.WaitGroup
	for i, name := range models {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			filter := model.FilterCriteria{Model: name, Limit: 1, Page: 1}
			page, err := c.catalog.Query(ctx, filter)
			if err != nil {
				c.log.Warn("comparison lookup failed", zap.String("model", name), zap.Error(err))
				return
			}
			if page == nil || len(page.Results) == 0 {
				c.log.Debug("comparison lookup found nothing", zap.String("model", name))
				return
			}
			v := page.Results[0]
			slots[i] = &v
		}(i, name)
	}
	wg.Wait()

	found := make([]model.Vehicle, 0, len(models))
	for _, v := range slots {
		if v != nil {
			found = append(found, *v)
		}
	}
	return found
}

// Compare returns the rendered comparison, or a guidance message when fewer
// than two models are named or resolved.
func (c *Comparer) Compare(ctx context.Context, models []string) (text string, vehicles []model.Vehicle) {
	if countNonBlank(models) < 2 {
		return ComparisonTooFewModels, nil
	}
	vehicles = c.Lookup(ctx, models)
	if len(vehicles) < 2 {
		return ComparisonNotEnough, vehicles
	}
	return "# Car Comparison\n\n" + RenderComparisonTable(vehicles), vehicles
}

// RenderComparisonTable renders a markdown table with one column per vehicle
func RenderComparisonTable(vehicles []model.Vehicle) string {
	var b strings.Builder

	headers := make([]string, len(vehicles))
	separators := make([]string, len(vehicles))
	for i, v := range vehicles {
		headers[i] = v.DisplayName()
		separators[i] = strings.Repeat("-", 20)
	}
	b.WriteString("| Feature | " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("-", 10) + "|" + strings.Join(separators, "|") + "|\n")

	rows := []struct {
		label string
		value func(model.Vehicle) string
	}{
		{"Price", func(v model.Vehicle) string { return utils.FormatRupees(float64(v.Price)) }},
		{"Color", func(v model.Vehicle) string { return v.Color }},
		{"Fuel Type", func(v model.Vehicle) string { return v.FuelType }},
		{"Transmission", func(v model.Vehicle) string { return v.Transmission }},
		{"Seats", func(v model.Vehicle) string { return strconv.Itoa(v.Seats) }},
	}
	for _, row := range rows {
		cells := make([]string, len(vehicles))
		for i, v := range vehicles {
			cells[i] = row.value(v)
		}
		b.WriteString("| " + row.label + " | " + strings.Join(cells, " | ") + " |\n")
	}

	return b.String()
}

func countNonBlank(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
