package router

import (
	"github.com/arafat19/ripple/backend/internal/handlers"
	"github.com/arafat19/ripple/backend/internal/middleware"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/repositories"
	"github.com/arafat19/ripple/backend/internal/services"
	"github.com/arafat19/ripple/backend/pkg/auth"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupMiddleware configures global echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logrus.Info("global middleware configured")
}

// SetupRoutes runs migrations, builds the repository/service/handler graph
// and registers all routes.
func SetupRoutes(e *echo.Echo, db *gorm.DB, redisClient *redis.Client, jwtManager *auth.JWTManager) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		logrus.Fatalf("failed to auto migrate models: %v", err)
	}
	// Username uniqueness is case-insensitive; GORM tags cannot express a
	// functional index, so it is created here.
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))").Error; err != nil {
		logrus.Fatalf("failed to create username index: %v", err)
	}
	logrus.Info("postgres migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	conversationRepo := repositories.NewPostgresConversationRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	// --- Engines ---
	identityService := services.NewIdentityService(userRepo, postRepo, commentRepo, likeRepo, followRepo)
	socialGraphService := services.NewSocialGraphService(followRepo, userRepo, notificationRepo)
	contentService := services.NewContentService(postRepo, commentRepo, likeRepo, userRepo, notificationRepo)
	conversationService := services.NewConversationService(conversationRepo, messageRepo, userRepo, notificationRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(identityService, userRepo, jwtManager, redisClient)
	userHandler := handlers.NewUserHandler(identityService)
	followHandler := handlers.NewFollowHandler(socialGraphService)
	postHandler := handlers.NewPostHandler(contentService)
	commentHandler := handlers.NewCommentHandler(contentService)
	likeHandler := handlers.NewLikeHandler(contentService)
	conversationHandler := handlers.NewConversationHandler(conversationService)
	messageHandler := handlers.NewMessageHandler(conversationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// --- Unauthenticated auth routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Public reads (viewer resolved when a token is present) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalAuth(jwtManager, redisClient))
	userHandler.RegisterPublicRoutes(public)
	followHandler.RegisterPublicRoutes(public)
	postHandler.RegisterPublicRoutes(public)
	commentHandler.RegisterPublicRoutes(public)
	likeHandler.RegisterPublicRoutes(public)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.RequireAuth(jwtManager, redisClient))
	authHandler.RegisterSessionRoutes(api.Group("/auth"))
	userHandler.RegisterProtectedRoutes(api)
	followHandler.RegisterProtectedRoutes(api)
	postHandler.RegisterProtectedRoutes(api)
	commentHandler.RegisterProtectedRoutes(api)
	likeHandler.RegisterProtectedRoutes(api)
	conversationHandler.RegisterConversationRoutes(api)
	messageHandler.RegisterMessageRoutes(api)
	notificationHandler.RegisterNotificationRoutes(api)

	logrus.Info("all routes configured")
}
