package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// statusOf maps an engine error code to its HTTP status class.
func statusOf(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperr.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeAlreadyExists, apperr.CodeDuplicateKey, apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON renders an engine error as {"error": "..."}. Internal causes
// are logged but never exposed to the caller.
func errorJSON(c echo.Context, err error) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Code != apperr.CodeInternal {
		return c.JSON(statusOf(e.Code), echo.Map{"error": e.Message})
	}
	logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// bindAndValidate decodes the request body and checks its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.InvalidArgument("invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return apperr.InvalidArgument(err.Error())
	}
	return nil
}

// getUserIDFromContext returns the authenticated caller's id, zero for
// anonymous requests.
func getUserIDFromContext(c echo.Context) uint {
	id, _ := c.Get(middleware.UserIDKey).(uint)
	return id
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperr.InvalidArgument("invalid " + name)
	}
	return uint(id), nil
}

// parsePagination reads page and limit query parameters, applying the
// defaults (page 1, limit 10). Missing or malformed values fall back to the
// defaults rather than failing the request.
func parsePagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
