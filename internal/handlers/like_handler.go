package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like HTTP requests.
type LikeHandler struct {
	content services.ContentService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(content services.ContentService) *LikeHandler {
	return &LikeHandler{content: content}
}

// RegisterPublicRoutes registers the like listing open to anonymous readers.
func (h *LikeHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/likes/post/:postId", h.ListLikes)
}

// RegisterProtectedRoutes registers the like mutations and the per-viewer
// liked check.
func (h *LikeHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/likes", h.LikePost)
	g.DELETE("/likes", h.UnlikePost)
	g.GET("/likes/post/:postId/check", h.CheckLiked)
}

// LikePost records the caller's like on a post.
func (h *LikeHandler) LikePost(c echo.Context) error {
	var req models.LikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	if err := h.content.LikePost(getUserIDFromContext(c), req.PostID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "post liked successfully"})
}

// UnlikePost removes the caller's like from a post.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	var req models.LikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	if err := h.content.UnlikePost(getUserIDFromContext(c), req.PostID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post unliked successfully"})
}

// CheckLiked reports whether the caller has liked the addressed post.
func (h *LikeHandler) CheckLiked(c echo.Context) error {
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return errorJSON(c, err)
	}
	liked, err := h.content.HasLiked(getUserIDFromContext(c), postID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// ListLikes pages through the users who liked a post.
func (h *LikeHandler) ListLikes(c echo.Context) error {
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return errorJSON(c, err)
	}
	page, limit := parsePagination(c)
	likers, pagination, err := h.content.ListLikes(postID, page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: likers, Pagination: pagination})
}
