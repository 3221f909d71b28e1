package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"carfinder/internal/model"
)

// CatalogClient queries a remote inventory API over HTTP
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient creates a client for an inventory API rooted at baseURL
// (for example http://localhost:8080/api/inventory).
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Query calls /search when the filter carries search text and /filter otherwise.
// Structured constraints are sent to both.
func (c *CatalogClient) Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error) {
	endpoint := c.baseURL + "/filter"
	params := url.Values{}

	if filter.Search != "" {
		endpoint = c.baseURL + "/search"
		params.Set("q", filter.Search)
	}
	setParam(params, "brand", filter.Brand)
	setParam(params, "model", filter.Model)
	setParam(params, "color", filter.Color)
	setParam(params, "fuelType", filter.FuelType)
	setParam(params, "transmission", filter.Transmission)
	setParam(params, "excludeBrand", filter.ExcludedBrand)
	if filter.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	setParam(params, "sortBy", string(filter.SortBy))
	params.Set("limit", strconv.Itoa(filter.Limit))
	params.Set("page", strconv.Itoa(filter.Page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The brand endpoint style of "nothing matched"
		return &model.ResultPage{Page: filter.Page, Limit: filter.Limit, Results: []model.Vehicle{}}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page model.ResultPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if page.Page == 0 {
		page.Page = filter.Page
	}
	if page.Limit == 0 {
		page.Limit = filter.Limit
	}
	return &page, nil
}

func setParam(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
