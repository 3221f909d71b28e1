package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carfinder/internal/middleware"
	"carfinder/internal/model"
	"carfinder/internal/utils"
	"carfinder/pkg/logger"
)

// CarInventoryTool is the name the resolver is exposed under
const CarInventoryTool = "carInventory"

// ConversationHeader lets callers pick the conversation without touching the arguments
const ConversationHeader = "X-Conversation-ID"

// QueryResolver answers one tool call as display text
type QueryResolver interface {
	Resolve(ctx context.Context, req model.InventoryRequest) (string, error)
}

// ToolHandler exposes the resolver as a callable tool
type ToolHandler struct {
	resolver QueryResolver
	log      *logger.Logger
}

// NewToolHandler creates a new tool handler
func NewToolHandler(resolver QueryResolver, log *logger.Logger) *ToolHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ToolHandler{resolver: resolver, log: log}
}

// Register mounts the tool routes on a router group
func (h *ToolHandler) Register(g *gin.RouterGroup) {
	g.GET("/tools", h.List)
	g.POST("/tools/:name/call", h.Call)
}

// List handles GET /api/v1/tools
func (h *ToolHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": []model.ToolDescriptor{CarInventoryDescriptor()}})
}

// Call handles POST /api/v1/tools/:name/call
func (h *ToolHandler) Call(c *gin.Context) {
	name := c.Param("name")
	if name != CarInventoryTool {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown tool: " + name})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, model.TextResult("Invalid tool arguments: "+err.Error()))
		return
	}

	var req model.InventoryRequest
	if err := utils.DecodeLenientJSON(string(raw), &req); err != nil && !errors.Is(err, utils.ErrEmptyPayload) {
		c.JSON(http.StatusBadRequest, model.TextResult("Invalid tool arguments: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		req.ConversationID = strings.TrimSpace(c.GetHeader(ConversationHeader))
	}

	log := h.log.WithConversation(middleware.CorrelationID(c), req.ConversationID)

	text, err := h.resolver.Resolve(c.Request.Context(), req)
	if err != nil {
		// The text already explains the failure to the caller
		log.Error("tool call failed", zap.String("tool", name), zap.Error(err))
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, model.TextResult(text))
}

// CarInventoryDescriptor describes the carInventory arguments
func CarInventoryDescriptor() model.ToolDescriptor {
	return model.ToolDescriptor{
		Name: CarInventoryTool,
		Description: "Search the car inventory by brand, model, price, color, fuel type and transmission. " +
			"Follow-up requests such as \"next page\", \"same price range\" or \"another brand\" are resolved " +
			"against the previous turn of the same conversation. Pass compareModels to compare cars side by side.",
		Parameters: []model.ToolParameter{
			{Name: "brand", Type: "string", Description: "Car brand, e.g. Toyota"},
			{Name: "model", Type: "string", Description: "Car model, e.g. Camry"},
			{Name: "minPrice", Type: "number", Description: "Minimum price in rupees; formatted strings such as \"5 lakh\" are accepted"},
			{Name: "maxPrice", Type: "number", Description: "Maximum price in rupees; formatted strings are accepted"},
			{Name: "color", Type: "string", Description: "Exterior color"},
			{Name: "fuelType", Type: "string", Description: "Petrol, Diesel, Electric, Hybrid or CNG"},
			{Name: "transmission", Type: "string", Description: "Automatic or Manual"},
			{
				Name:        "sortBy",
				Type:        "string",
				Description: "Result ordering",
				Enum: []string{
					string(model.SortPriceAscending), string(model.SortPriceDescending),
					string(model.SortYearAscending), string(model.SortYearDescending),
				},
			},
			{Name: "search", Type: "string", Description: "The user's request in their own words"},
			{Name: "limit", Type: "integer", Description: "Results per page, 1 to 10", Default: model.DefaultLimit},
			{Name: "page", Type: "integer", Description: "Page number", Default: model.DefaultPage},
			{Name: "compareModels", Type: "array", Description: "Two or more model names to compare"},
			{Name: "conversationId", Type: "string", Description: "Conversation to resolve follow-ups against"},
		},
	}
}
