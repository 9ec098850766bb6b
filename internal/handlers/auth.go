package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/repositories"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/arafat19/ripple/backend/pkg/auth"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login, the current-user endpoint and
// logout. It is the only place that touches raw credentials; the engines
// only ever see the resolved actor id.
type AuthHandler struct {
	identity       services.IdentityService
	userRepository repositories.UserRepository
	jwtManager     *auth.JWTManager
	redisClient    *redis.Client
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	identity services.IdentityService,
	userRepo repositories.UserRepository,
	jwtManager *auth.JWTManager,
	redisClient *redis.Client,
) *AuthHandler {
	return &AuthHandler{
		identity:       identity,
		userRepository: userRepo,
		jwtManager:     jwtManager,
		redisClient:    redisClient,
	}
}

// RegisterAuthRoutes registers the unauthenticated auth routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// RegisterSessionRoutes registers the auth routes that require a session.
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
	g.POST("/logout", h.Logout)
}

// Register creates an account and returns it with a fresh token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}
	if req.Password != req.ConfirmPassword {
		return errorJSON(c, apperr.InvalidArgument("passwords do not match"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorJSON(c, apperr.Internal(err))
	}

	user, err := h.identity.CreateUser(req.Username, req.Email, string(hashed), req.Bio, req.AvatarURL)
	if err != nil {
		return errorJSON(c, err)
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email)
	if err != nil {
		return errorJSON(c, apperr.Internal(err))
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

// Login verifies email/password and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorJSON(c, err)
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, apperr.Unauthenticated("invalid email or password"))
		}
		return errorJSON(c, apperr.Internal(err))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return errorJSON(c, apperr.Unauthenticated("invalid email or password"))
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email)
	if err != nil {
		return errorJSON(c, apperr.Internal(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	profile, err := h.identity.GetUser(actorID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Logout blacklists the caller's token id until the token would have
// expired, after which the key is pointless anyway.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := auth.ExtractTokenFromHeader(c.Request().Header.Get("Authorization"))
	if err != nil {
		return errorJSON(c, apperr.Unauthenticated("missing or invalid token"))
	}
	claims, err := h.jwtManager.Verify(token)
	if err != nil {
		return errorJSON(c, apperr.Unauthenticated("invalid token"))
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := h.redisClient.Set(c.Request().Context(), "blacklist:"+claims.ID, 1, ttl).Err(); err != nil {
			return errorJSON(c, apperr.Internal(err))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
