package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConversationHandler handles conversation HTTP requests. All conversation
// routes require an authenticated caller.
type ConversationHandler struct {
	conversations services.ConversationService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversations services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// RegisterConversationRoutes registers conversation routes.
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.POST("/conversations", h.CreateConversation)
	g.GET("/conversations", h.ListConversations)
}

// CreateConversation opens, or returns the existing, conversation between
// the caller and the addressed participant.
func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	var req models.CreateConversationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	conversation, err := h.conversations.GetOrCreateConversation(getUserIDFromContext(c), req.ParticipantID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, conversation)
}

// ListConversations lists the caller's conversations, most recently active
// first.
func (h *ConversationHandler) ListConversations(c echo.Context) error {
	conversations, err := h.conversations.ListConversations(getUserIDFromContext(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, conversations)
}
