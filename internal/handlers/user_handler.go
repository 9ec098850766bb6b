package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile HTTP requests.
type UserHandler struct {
	identity services.IdentityService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(identity services.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// RegisterPublicRoutes registers the user routes open to anonymous readers.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/stats", h.GetUserStats)
}

// RegisterProtectedRoutes registers the self-only user routes.
func (h *UserHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.PUT("/users/:id", h.UpdateProfile)
	g.DELETE("/users/:id", h.DeleteUser)
	g.POST("/users/:id/change-password", h.ChangePassword)
}

// ListUsers pages through users, optionally filtered by a case-insensitive
// username search.
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, limit := parsePagination(c)
	users, pagination, err := h.identity.ListUsers(c.QueryParam("search"), page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: users, Pagination: pagination})
}

// GetUser returns a public profile with live stats.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	profile, err := h.identity.GetUser(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUserStats returns exact per-user counts.
func (h *UserHandler) GetUserStats(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	stats, err := h.identity.UserStats(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "stats": stats})
}

// UpdateProfile applies a partial patch to the caller's own profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	user, err := h.identity.UpdateProfile(getUserIDFromContext(c), id, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated successfully", "user": user})
}

// ChangePassword rotates the caller's own password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	if err := h.identity.ChangePassword(getUserIDFromContext(c), id, &req); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed successfully"})
}

// DeleteUser removes the caller's own account and everything it owns.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.identity.DeleteUser(getUserIDFromContext(c), id); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user account deleted successfully"})
}
