// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ideahub/internal/cache"
	"ideahub/internal/config"
	"ideahub/internal/database"
	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"
	"ideahub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo        repository.UserRepository
	profileRepo     repository.ProfileRepository
	categoryRepo    repository.CategoryRepository
	postRepo        repository.PostRepository
	threadRepo      repository.ThreadRepository
	responseRepo    repository.ResponseRepository
	applicationRepo repository.ApplicationRepository
	actionRepo      repository.ModeratorActionRepository

	authService       service.AuthService
	userService       service.UserService
	postService       service.PostService
	projectService    service.ProjectService
	threadService     service.ThreadService
	surveyService     service.SurveyService
	inquiryService    service.InquiryService
	moderationService service.ModerationService
	feedService       service.FeedService
	categoryService   service.CategoryService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	actionRepo := repository.NewModeratorActionRepository(db)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("ideahub-api"),
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		categoryRepo:    categoryRepo,
		postRepo:        postRepo,
		threadRepo:      threadRepo,
		responseRepo:    responseRepo,
		applicationRepo: applicationRepo,
		actionRepo:      actionRepo,
	}
	server.authService = service.NewAuthService(userRepo, cfg.JWTSecret)
	server.userService = service.NewUserService(userRepo, profileRepo, categoryRepo)
	server.postService = service.NewPostService(postRepo, userRepo, categoryRepo)
	server.projectService = service.NewProjectService(db, postRepo, profileRepo)
	server.threadService = service.NewThreadService(db, threadRepo, postRepo, profileRepo)
	server.surveyService = service.NewSurveyService(postRepo, responseRepo, profileRepo)
	server.inquiryService = service.NewInquiryService(postRepo, applicationRepo, profileRepo)
	server.moderationService = service.NewModerationService(db, actionRepo)
	server.feedService = service.NewFeedService(postRepo, userRepo)
	server.categoryService = service.NewCategoryService(categoryRepo)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry tracing
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public browse routes
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/:id/statistics", s.GetSurveyStatistics)
	publicPosts.Get("/:id", s.GetPost)

	api.Get("/categories", s.GetCategories)
	api.Get("/categories/:id", s.GetCategory)

	publicThreads := api.Group("/threads")
	publicThreads.Get("/", s.GetThreads)
	publicThreads.Get("/:id", s.GetThread)

	api.Get("/profiles/:username/projects", s.GetProjectsByParticipant)
	api.Get("/profiles/:username", s.GetProfileByUsername)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyAccount)
	users.Put("/me/profile", s.UpdateMyProfile)
	users.Put("/me/preferences", s.UpdateMyPreferences)
	users.Put("/me/avatar", s.SetMyAvatar)
	users.Get("/", s.GetAllUsers)
	users.Delete("/:id", s.DeleteUser)

	// Post routes. Specific /:id/:resource routes go BEFORE generic /:id.
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Put("/:id/raised-amount", s.SetRaisedAmount)
	posts.Put("/:id/featured-image", s.SetFeaturedImage)
	posts.Post("/:id/attachments", s.AddAttachment)
	posts.Delete("/:id/attachments/:attachmentId", s.RemoveAttachment)

	// Survey responses and statistics
	posts.Post("/:id/responses", middleware.RateLimit(
		s.redis, 10, time.Minute, "submit_response"), s.SubmitSurveyResponse)
	posts.Get("/:id/responses", s.GetSurveyResponses)
	protected.Delete("/responses/:id", s.DeleteSurveyResponse)

	// Inquiry applications
	posts.Post("/:id/applications", middleware.RateLimit(
		s.redis, 10, time.Minute, "apply_inquiry"), s.ApplyToInquiry)
	posts.Get("/:id/applications", s.GetInquiryApplications)

	// Project roadmap and participants
	posts.Post("/:id/steps", s.AddRoadmapStep)
	posts.Put("/:id/steps/:stepId/link", s.LinkRoadmapStep)
	posts.Delete("/:id/steps/:stepId/link", s.UnlinkRoadmapStep)
	posts.Put("/:id/steps/:stepId", s.UpdateRoadmapStep)
	posts.Delete("/:id/steps/:stepId", s.DeleteRoadmapStep)
	posts.Post("/:id/participants/:profileId", s.AddProjectParticipant)
	posts.Delete("/:id/participants/:profileId", s.RemoveProjectParticipant)

	// Generic /:id routes last
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Thread routes
	threads := protected.Group("/threads")
	threads.Post("/", s.CreateThread)
	threads.Post("/:id/posts/:postId/pin", s.PinThreadPost)
	threads.Delete("/:id/posts/:postId/pin", s.UnpinThreadPost)
	threads.Post("/:id/posts/:postId", s.AddThreadPost)
	threads.Delete("/:id/posts/:postId", s.RemoveThreadPost)
	threads.Delete("/:id", s.DeleteThread)

	// Feed routes
	protected.Get("/feed/suggested", s.GetSuggestedPosts)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Post("/categories", s.CreateCategory)
	admin.Put("/categories/:id", s.UpdateCategory)
	admin.Delete("/categories/:id", s.DeleteCategory)
	admin.Put("/posts/:id/feature", s.FeaturePost)
	admin.Delete("/posts/:id/feature", s.UnfeaturePost)
	admin.Post("/users/:id/ban", s.BanUser)
	admin.Post("/users/:id/unban", s.UnbanUser)
	admin.Post("/users/:id/suspend", s.SuspendUser)
	admin.Post("/users/:id/unsuspend", s.UnsuspendUser)
	admin.Get("/users/:id/actions", s.GetUserModerationActions)
	admin.Post("/posts/:id/hide", s.HidePost)
	admin.Post("/posts/:id/unhide", s.UnhidePost)
	admin.Post("/posts/:id/delete", s.ModerationDeletePost)
	admin.Get("/posts/:id/actions", s.GetPostModerationActions)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "ideahub-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "ideahub-client" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := observability.WithUserID(c.UserContext(), uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdminByUserID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		c.Locals("isAdmin", true)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "IdeaHub API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			observability.Logger.ErrorContext(c.UserContext(), "unhandled error",
				"error", err.Error())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	observability.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.Logger.Error("error shutting down HTTP server", "error", err.Error())
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			observability.Logger.Error("error closing sql DB", "error", cerr.Error())
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			observability.Logger.Error("error closing redis", "error", rerr.Error())
		}
	}

	observability.Logger.Info("server shutdown complete")
	return nil
}
