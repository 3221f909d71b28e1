package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carfinder/internal/service"
)

// ConversationHandler manages conversation lifecycles
type ConversationHandler struct {
	contexts *service.ContextStore
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(contexts *service.ContextStore) *ConversationHandler {
	return &ConversationHandler{contexts: contexts}
}

// Register mounts the conversation routes on a router group
func (h *ConversationHandler) Register(g *gin.RouterGroup) {
	g.POST("/conversations", h.Create)
	g.GET("/conversations/:id", h.Get)
	g.DELETE("/conversations/:id", h.Delete)
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	id := uuid.Must(uuid.NewV7()).String()

	session, err := h.contexts.Session(c.Request.Context(), id)
	if err == nil {
		err = h.contexts.Save(c.Request.Context(), session)
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversationId": id, "createdAt": session.CreatedAt})
}

// Get handles GET /api/v1/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	snapshot, err := h.contexts.Snapshot(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversationId": id, "context": snapshot})
}

// Delete handles DELETE /api/v1/conversations/:id
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.contexts.Reset(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset conversation: " + err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
