package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mytro-app/backend/internal/cache"
	"github.com/mytro-app/backend/internal/handlers"
	"github.com/mytro-app/backend/internal/middleware"
	"github.com/mytro-app/backend/internal/models"
	"github.com/mytro-app/backend/internal/repositories"
	"github.com/mytro-app/backend/pkg/config"
	"github.com/mytro-app/backend/pkg/storage"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, firebaseAuthClient *auth.Client, mediaStore *storage.MediaStore) {
	// AutoMigrate PostgreSQL models
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Interest{},
		&models.Post{},
		&models.Hashtag{},
		&models.Share{},
		&models.PollVote{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.Follow{},
		&models.Block{},
		&models.SavedPost{},
		&models.Story{},
		&models.StoryView{},
		&models.Notification{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.ConversationMessage{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded media
	e.Static(cfg.MediaURLPrefix, cfg.MediaDir)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewPostgresPostRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(db.Postgres)
	storyRepo := repositories.NewPostgresStoryRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	conversationRepo := repositories.NewPostgresConversationRepository(db.Postgres)
	moderationRepo := repositories.NewPostgresModerationRepository(db.Postgres)
	activityRepo := repositories.NewMongoActivityRepository(db.Mongo.Database("mytro"))

	appCache := cache.New(db.Redis)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, activityRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile and discovery routes
	userHandler := handlers.NewUserHandler(userRepo, followRepo, activityRepo, mediaStore, appCache)
	userHandler.RegisterUserRoutes(api)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, commentRepo, likeRepo, savedPostRepo, notificationRepo, activityRepo, mediaStore)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, followRepo, userRepo, commentRepo, likeRepo, savedPostRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, likeRepo, notificationRepo, mediaStore)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, commentRepo, userRepo, notificationRepo)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Social graph routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, moderationRepo, notificationRepo, activityRepo, appCache)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Saved post routes
	savedPostHandler := handlers.NewSavedPostHandler(savedPostRepo, postRepo, userRepo, commentRepo, likeRepo)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Println("Saved post routes configured.")

	// Story routes
	storyHandler := handlers.NewStoryHandler(storyRepo, followRepo, userRepo, mediaStore)
	storyHandler.RegisterStoryRoutes(api)
	log.Println("Story routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, appCache)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Messaging routes
	conversationHandler := handlers.NewConversationHandler(conversationRepo, userRepo, moderationRepo, mediaStore)
	conversationHandler.RegisterConversationRoutes(api)
	log.Println("Conversation routes configured.")

	// Moderation routes
	moderationHandler := handlers.NewModerationHandler(moderationRepo, userRepo, postRepo, commentRepo)
	moderationHandler.RegisterModerationRoutes(api)
	log.Println("Moderation routes configured.")
}
