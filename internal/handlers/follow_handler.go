package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow-graph HTTP requests.
type FollowHandler struct {
	socialGraph services.SocialGraphService
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(socialGraph services.SocialGraphService) *FollowHandler {
	return &FollowHandler{socialGraph: socialGraph}
}

// RegisterPublicRoutes registers the follow listings open to anonymous
// readers.
func (h *FollowHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// RegisterProtectedRoutes registers the follow mutations and the
// follow-status check, which require a caller identity.
func (h *FollowHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.POST("/users/:id/unfollow", h.UnfollowUser)
	g.GET("/users/:id/is-following", h.IsFollowing)
}

// FollowUser makes the caller follow the addressed user.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.socialGraph.Follow(getUserIDFromContext(c), targetID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": true})
}

// UnfollowUser removes the caller's follow edge to the addressed user.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.socialGraph.Unfollow(getUserIDFromContext(c), targetID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": false})
}

// IsFollowing reports whether the caller follows the addressed user.
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	following, err := h.socialGraph.IsFollowing(getUserIDFromContext(c), targetID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"is_following": following})
}

// GetFollowers pages through the addressed user's followers.
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	page, limit := parsePagination(c)
	followers, pagination, err := h.socialGraph.Followers(id, page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: followers, Pagination: pagination})
}

// GetFollowing pages through the users the addressed user follows.
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	page, limit := parsePagination(c)
	following, pagination, err := h.socialGraph.Following(id, page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: following, Pagination: pagination})
}
