package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carfinder/internal/model"
	"carfinder/internal/repository"
	"carfinder/internal/service"
)

func testCatalog() *repository.FileCatalog {
	return repository.NewFileCatalog([]model.Vehicle{
		{Brand: "Toyota", Model: "Camry", Year: 2022, Price: 4200000, Color: "White", FuelType: "Hybrid", Transmission: "Automatic", Seats: 5},
		{Brand: "Honda", Model: "Civic", Year: 2021, Price: 2200000, Color: "Red", FuelType: "Petrol", Transmission: "Manual", Seats: 5},
		{Brand: "Honda", Model: "City", Year: 2023, Price: 1400000, Color: "Red", FuelType: "Petrol", Transmission: "Automatic", Seats: 5},
		{Brand: "Tata", Model: "Nexon", Year: 2023, Price: 950000, Color: "Green", FuelType: "Diesel", Transmission: "Automatic", Seats: 5},
	})
}

type testServer struct {
	router   *gin.Engine
	contexts *service.ContextStore
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	catalog := testCatalog()
	contexts := service.NewContextStore(repository.NewMemorySessionStore(0))
	resolver := service.NewResolver(catalog, contexts, nil)

	router := gin.New()
	NewInventoryHandler(catalog, 100).Register(router.Group("/api/inventory"))
	v1 := router.Group("/api/v1")
	NewToolHandler(resolver, nil).Register(v1)
	NewConversationHandler(contexts).Register(v1)

	return &testServer{router: router, contexts: contexts}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) model.ResultPage {
	t.Helper()
	var page model.ResultPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func decodeText(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var result model.ToolResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	return result.Content[0].Text
}

func TestInventoryHandler(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantTotal  int
		wantFirst  string
	}{
		{"list sorted by price", "/api/inventory?sortBy=price-asc", http.StatusOK, 4, "Nexon"},
		{"list paged", "/api/inventory?limit=1&page=2", http.StatusOK, 4, "Civic"},
		{"brand", "/api/inventory/brand/honda?sortBy=year-desc", http.StatusOK, 2, "City"},
		{"filter", "/api/inventory/filter?color=red&maxPrice=2200000", http.StatusOK, 2, "Civic"},
		{"filter excluded brand", "/api/inventory/filter?excludeBrand=Honda", http.StatusOK, 2, "Camry"},
		{"search", "/api/inventory/search?q=diesel", http.StatusOK, 1, "Nexon"},
		{"search narrowed by brand", "/api/inventory/search?q=automatic&brand=honda", http.StatusOK, 1, "City"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			page := decodePage(t, w)
			assert.Equal(t, tt.wantTotal, page.Total)
			require.NotEmpty(t, page.Results)
			assert.Equal(t, tt.wantFirst, page.Results[0].Model)
		})
	}
}

func TestInventoryHandler_Errors(t *testing.T) {
	s := newTestServer()

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/inventory/brand/Ferrari", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/inventory/search", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/inventory/abc", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/inventory/99", "").Code)

	w := s.do(http.MethodGet, "/api/inventory/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var v model.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "Civic", v.Model)
}

func TestInventoryHandler_LimitCap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewInventoryHandler(testCatalog(), 2).Register(router.Group("/api/inventory"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inventory?limit=50", nil))
	page := decodePage(t, w)
	assert.Equal(t, 2, page.Limit)
	assert.Len(t, page.Results, 2)
}

func TestToolHandler_List(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/v1/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tools []model.ToolDescriptor `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Tools, 1)
	assert.Equal(t, CarInventoryTool, body.Tools[0].Name)
	assert.NotEmpty(t, body.Tools[0].Parameters)
}

func TestToolHandler_CallLenientArguments(t *testing.T) {
	s := newTestServer()

	body := "```json\n{brand: 'honda', color: \"red\", sortBy: \"price-asc\",}\n```"
	w := s.do(http.MethodPost, "/api/v1/tools/carInventory/call", body, ConversationHeader, "lenient")
	require.Equal(t, http.StatusOK, w.Code)

	text := decodeText(t, w)
	assert.True(t, strings.HasPrefix(text, "Found red colored Honda cars (2 results):\n\n2023 Honda City"), text)

	snap, err := s.contexts.Snapshot(context.Background(), "lenient")
	require.NoError(t, err)
	assert.Equal(t, "Honda", snap.LastBrand)
}

func TestToolHandler_ConversationFlow(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/api/v1/conversations", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ConversationID string    `json:"conversationId"`
		CreatedAt      time.Time `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ConversationID)

	call := func(args string) string {
		w := s.do(http.MethodPost, "/api/v1/tools/carInventory/call", args, ConversationHeader, created.ConversationID)
		require.Equal(t, http.StatusOK, w.Code)
		return decodeText(t, w)
	}

	text := call(`{"search": "automatic cars", "limit": 1}`)
	assert.Contains(t, text, "page 1 of 3")
	text = call(`{"search": "next page"}`)
	assert.Contains(t, text, "page 2 of 3")

	w = s.do(http.MethodGet, "/api/v1/conversations/"+created.ConversationID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap struct {
		Context model.ConversationalContext `json:"context"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotNil(t, snap.Context.LastFilter)
	assert.Equal(t, 2, snap.Context.LastFilter.Page)
	assert.Equal(t, "automatic", snap.Context.LastFilter.Transmission)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/conversations/"+created.ConversationID, "").Code)

	text = call(`{"search": "next page"}`)
	assert.Contains(t, text, "Found cars (4 results)")
}

func TestToolHandler_BodyConversationWins(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/api/v1/tools/carInventory/call", `{"brand":"Tata","conversationId":"body"}`, ConversationHeader, "header")
	require.Equal(t, http.StatusOK, w.Code)

	snap, err := s.contexts.Snapshot(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, "Tata", snap.LastBrand)

	snap, err = s.contexts.Snapshot(context.Background(), "header")
	require.NoError(t, err)
	assert.Nil(t, snap.LastFilter)
}

func TestToolHandler_Errors(t *testing.T) {
	s := newTestServer()

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/v1/tools/agentInfo/call", "{}").Code)

	w := s.do(http.MethodPost, "/api/v1/tools/carInventory/call", "not json at all")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(decodeText(t, w), "Invalid tool arguments:"))

	// an empty body is an unfiltered first page
	w = s.do(http.MethodPost, "/api/v1/tools/carInventory/call", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeText(t, w), "Found cars (4 results)")
}

func TestCatalogClientAgainstInventoryAPI(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	client := service.NewCatalogClient(srv.URL+"/api/inventory", time.Second)

	page, err := client.Query(context.Background(), model.FilterCriteria{
		Brand:    "Honda",
		MaxPrice: model.Float64Ptr(2000000),
		Limit:    5,
		Page:     1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "City", page.Results[0].Model)

	page, err = client.Query(context.Background(), model.FilterCriteria{Search: "hybrid", Limit: 5, Page: 1})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Camry", page.Results[0].Model)

	page, err = client.Query(context.Background(), model.FilterCriteria{Search: "red", Brand: "Honda", Transmission: "manual", Limit: 5, Page: 1})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Civic", page.Results[0].Model)

	page, err = client.Query(context.Background(), model.FilterCriteria{ExcludedBrand: "honda", SortBy: model.SortPriceDescending, Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Nexon", page.Results[0].Model)
}
