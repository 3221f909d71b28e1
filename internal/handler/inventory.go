package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"carfinder/internal/model"
	"carfinder/internal/utils"
)

// VehicleReader is the catalog surface the inventory API needs
type VehicleReader interface {
	Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error)
	Get(ctx context.Context, id int64) (*model.Vehicle, error)
}

// InventoryHandler serves the raw vehicle catalog
type InventoryHandler struct {
	catalog     VehicleReader
	maxPageSize int
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(catalog VehicleReader, maxPageSize int) *InventoryHandler {
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &InventoryHandler{catalog: catalog, maxPageSize: maxPageSize}
}

// Register mounts the inventory routes on a router group
func (h *InventoryHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/brand/:brand", h.ByBrand)
	g.GET("/filter", h.Filter)
	g.GET("/search", h.Search)
	g.GET("/:id", h.GetVehicle)
}

// List handles GET /api/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	filter := h.pagination(c)
	h.respond(c, filter)
}

// ByBrand handles GET /api/inventory/brand/:brand
func (h *InventoryHandler) ByBrand(c *gin.Context) {
	brand := strings.TrimSpace(c.Param("brand"))
	filter := h.pagination(c)
	filter.Brand = brand

	page, err := h.catalog.Query(c.Request.Context(), filter)
	if err != nil {
		h.queryFailed(c, err)
		return
	}
	if page.Total == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No vehicles found for brand: %s", brand)})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Filter handles GET /api/inventory/filter
func (h *InventoryHandler) Filter(c *gin.Context) {
	filter := h.attributeFilter(c)
	h.respond(c, filter)
}

func (h *InventoryHandler) attributeFilter(c *gin.Context) model.FilterCriteria {
	filter := h.pagination(c)
	filter.Brand = strings.TrimSpace(c.Query("brand"))
	filter.Model = strings.TrimSpace(c.Query("model"))
	filter.Color = strings.TrimSpace(c.Query("color"))
	filter.FuelType = strings.TrimSpace(c.Query("fuelType"))
	filter.Transmission = strings.TrimSpace(c.Query("transmission"))
	filter.ExcludedBrand = strings.TrimSpace(c.Query("excludeBrand"))
	filter.MinPrice = queryPrice(c, "minPrice")
	filter.MaxPrice = queryPrice(c, "maxPrice")
	return filter
}

// Search handles GET /api/inventory/search?q=. The /filter parameters narrow it further.
func (h *InventoryHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}
	filter := h.attributeFilter(c)
	filter.Search = q
	h.respond(c, filter)
}

// GetVehicle handles GET /api/inventory/:id
func (h *InventoryHandler) GetVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	vehicle, err := h.catalog.Get(c.Request.Context(), id)
	if errors.Is(err, model.ErrVehicleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	if err != nil {
		h.queryFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// pagination reads sortBy, page and limit. The inventory API defaults to its
// largest page rather than the conversational default.
func (h *InventoryHandler) pagination(c *gin.Context) model.FilterCriteria {
	filter := model.FilterCriteria{
		SortBy: model.ParseSortKey(c.Query("sortBy")),
		Limit:  h.maxPageSize,
		Page:   model.DefaultPage,
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filter.Limit = v
		if filter.Limit > h.maxPageSize {
			filter.Limit = h.maxPageSize
		}
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		filter.Page = v
	}
	return filter
}

func (h *InventoryHandler) respond(c *gin.Context, filter model.FilterCriteria) {
	page, err := h.catalog.Query(c.Request.Context(), filter)
	if err != nil {
		h.queryFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InventoryHandler) queryFailed(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query inventory: " + err.Error()})
}

func queryPrice(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	return utils.NormalizePricePtr(raw)
}
