package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification HTTP requests. All notification
// routes are scoped to the authenticated caller.
type NotificationHandler struct {
	notifications services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unread-count", h.UnreadCount)
	g.PUT("/notifications/:id/read", h.MarkRead)
	g.PUT("/notifications/read-all", h.MarkAllRead)
}

// ListNotifications pages through the caller's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	page, limit := parsePagination(c)
	notifications, pagination, err := h.notifications.ListNotifications(getUserIDFromContext(c), page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: notifications, Pagination: pagination})
}

// UnreadCount returns the caller's unread notification count.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(getUserIDFromContext(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

// MarkRead acknowledges one of the caller's notifications.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.notifications.MarkRead(getUserIDFromContext(c), id); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notification marked as read"})
}

// MarkAllRead acknowledges every unread notification of the caller.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notifications.MarkAllRead(getUserIDFromContext(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all notifications marked as read"})
}
