package main

import (
	"github.com/arafat19/ripple/backend/internal/router"
	"github.com/arafat19/ripple/backend/pkg/auth"
	"github.com/arafat19/ripple/backend/pkg/config"
	"github.com/arafat19/ripple/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize PostgreSQL
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (token blacklist)
	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer redisClient.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, redisClient, jwtManager)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
