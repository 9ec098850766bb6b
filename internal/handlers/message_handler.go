package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct-message HTTP requests. All message routes
// require an authenticated caller.
type MessageHandler struct {
	conversations services.ConversationService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(conversations services.ConversationService) *MessageHandler {
	return &MessageHandler{conversations: conversations}
}

// RegisterMessageRoutes registers message routes.
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/:conversationId", h.ListMessages)
	g.PUT("/messages/:id", h.EditMessage)
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// SendMessage appends a message to one of the caller's conversations.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	message, err := h.conversations.SendMessage(getUserIDFromContext(c), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, message)
}

// ListMessages lists a conversation's messages oldest first.
func (h *MessageHandler) ListMessages(c echo.Context) error {
	conversationID, err := parseIDParam(c, "conversationId")
	if err != nil {
		return errorJSON(c, err)
	}
	messages, err := h.conversations.ListMessages(conversationID, getUserIDFromContext(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}

// EditMessage rewrites the caller's own message.
func (h *MessageHandler) EditMessage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	var req models.EditMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	message, err := h.conversations.EditMessage(id, getUserIDFromContext(c), req.Content)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, message)
}

// DeleteMessage removes the caller's own message.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.conversations.DeleteMessage(id, getUserIDFromContext(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "message deleted successfully"})
}
