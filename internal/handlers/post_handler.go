package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post HTTP requests.
type PostHandler struct {
	content services.ContentService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(content services.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

// RegisterPublicRoutes registers the post reads open to anonymous readers.
// The viewer id, when present, only enriches the liked flag.
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/user/:userId", h.ListUserPosts)
}

// RegisterProtectedRoutes registers the post mutations.
func (h *PostHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post owned by the caller.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	post, err := h.content.CreatePost(getUserIDFromContext(c), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "post created successfully", "post": post})
}

// ListPosts pages through all posts, newest first.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, limit := parsePagination(c)
	posts, pagination, err := h.content.ListPosts(getUserIDFromContext(c), page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: posts, Pagination: pagination})
}

// GetPost returns a single post with comments and likes.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	post, err := h.content.GetPost(id, getUserIDFromContext(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// ListUserPosts pages through one author's posts, newest first.
func (h *PostHandler) ListUserPosts(c echo.Context) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return errorJSON(c, err)
	}
	page, limit := parsePagination(c)
	posts, pagination, err := h.content.ListUserPosts(userID, getUserIDFromContext(c), page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: posts, Pagination: pagination})
}

// UpdatePost applies a partial patch to the caller's own post.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	post, err := h.content.UpdatePost(id, getUserIDFromContext(c), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post updated successfully", "post": post})
}

// DeletePost removes the caller's own post with its comments and likes.
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.content.DeletePost(id, getUserIDFromContext(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted successfully"})
}
