package handlers

import (
	"net/http"

	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment HTTP requests.
type CommentHandler struct {
	content services.ContentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(content services.ContentService) *CommentHandler {
	return &CommentHandler{content: content}
}

// RegisterPublicRoutes registers the comment reads open to anonymous readers.
func (h *CommentHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/comments/post/:postId", h.ListComments)
	g.GET("/comments/:id", h.GetComment)
}

// RegisterProtectedRoutes registers the comment mutations.
func (h *CommentHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	comment, err := h.content.CreateComment(getUserIDFromContext(c), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetComment returns a single comment.
func (h *CommentHandler) GetComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	comment, err := h.content.GetComment(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// ListComments pages through a post's comments, newest first.
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return errorJSON(c, err)
	}
	page, limit := parsePagination(c)
	comments, pagination, err := h.content.ListComments(postID, page, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, models.ListResponse{Items: comments, Pagination: pagination})
}

// UpdateComment edits the caller's own comment.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	comment, err := h.content.UpdateComment(id, getUserIDFromContext(c), req.Content)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes the caller's own comment.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.content.DeleteComment(id, getUserIDFromContext(c)); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted successfully"})
}
