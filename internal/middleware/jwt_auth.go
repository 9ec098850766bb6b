package middleware

import (
	"context"
	"net/http"

	"github.com/arafat19/ripple/backend/pkg/auth"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key under which the authenticated user id
// is stored. A missing key means an anonymous caller.
const UserIDKey = "userID"

// TokenBlacklist is the subset of the redis client the auth middleware
// needs to check whether a token id has been logged out.
type TokenBlacklist interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RequireAuth verifies the bearer token, rejects blacklisted (logged-out)
// tokens and stores the caller's user id in the context. A blacklist store
// that cannot be reached rejects the request: a token that cannot be proven
// live is treated as revoked.
func RequireAuth(jwtManager *auth.JWTManager, blacklist TokenBlacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := auth.ExtractTokenFromHeader(c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid token"})
			}

			claims, err := jwtManager.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			exists, err := blacklist.Exists(c.Request().Context(), "blacklist:"+claims.ID).Result()
			if err != nil || exists > 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is no longer valid"})
			}

			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}

// OptionalAuth resolves the caller when a valid bearer token is present and
// lets anonymous requests through. Public reads use this so they can enrich
// responses for logged-in viewers. Any failure, including an unreachable
// blacklist store, downgrades the request to anonymous instead of
// rejecting it.
func OptionalAuth(jwtManager *auth.JWTManager, blacklist TokenBlacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}
			token, err := auth.ExtractTokenFromHeader(header)
			if err != nil {
				return next(c)
			}
			claims, err := jwtManager.Verify(token)
			if err != nil {
				return next(c)
			}
			exists, err := blacklist.Exists(c.Request().Context(), "blacklist:"+claims.ID).Result()
			if err != nil || exists > 0 {
				return next(c)
			}
			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}
