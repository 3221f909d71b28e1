package service

import (
	"context"

	"carfinder/internal/model"
	"carfinder/pkg/metrics"
)

// Catalog answers filtered, sorted and paginated vehicle queries.
// Implementations must return a stable order for a given sort key.
type Catalog interface {
	Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error)
}

// instrumentedCatalog counts queries per backend
type instrumentedCatalog struct {
	backend string
	next    Catalog
}

// InstrumentCatalog wraps a catalog so every query is counted under backend
func InstrumentCatalog(backend string, c Catalog) Catalog {
	return &instrumentedCatalog{backend: backend, next: c}
}

func (c *instrumentedCatalog) Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error) {
	page, err := c.next.Query(ctx, filter)
	metrics.RecordCatalogQuery(c.backend, err)
	return page, err
}
