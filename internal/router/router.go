package router

import (
	"os"
	"strconv"
	"time"

	"github.com/strategyloom/strategy-services-backend/internal/config"
	"github.com/strategyloom/strategy-services-backend/internal/database/repository"
	"github.com/strategyloom/strategy-services-backend/internal/handlers"
	"github.com/strategyloom/strategy-services-backend/internal/middleware"
	"github.com/strategyloom/strategy-services-backend/internal/services"
	"github.com/strategyloom/strategy-services-backend/internal/services/api_key"
	"github.com/strategyloom/strategy-services-backend/internal/services/auth"
	"github.com/strategyloom/strategy-services-backend/internal/services/export"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin router with all API routes
func SetupRouter(db *gorm.DB, events *services.EventsService, staleSweep *services.StaleSweepService) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create services
	authService := auth.NewAuthService(db)
	apiKeyService := api_key.NewService(db)
	webhookService := services.NewWebhookService(config.GetWebhookConfig())

	submissionRepo := repository.NewSubmissionRepository(db)
	userRepo := repository.NewUserRepository(db)

	submissionService := services.NewSubmissionService(submissionRepo, userRepo, webhookService, events)
	statusService := services.NewStatusService(submissionRepo, events)
	exportService := export.NewService(submissionRepo)

	// Create middleware with services
	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(authService, db)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(apiKeyService)
	writeLimiter := middleware.NewRateLimiter(rateLimitFromEnv())

	// Create handlers with services
	authHandler := handlers.NewAuthHandler(authService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	statusHandler := handlers.NewStatusHandler(statusService, staleSweep)
	chatHandler := handlers.NewChatHandler(webhookService)
	apiKeyHandler := handlers.NewAPIKeyHandler(db)
	adminHandler := handlers.NewAdminHandler(authService, submissionService, exportService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.RefreshToken)
		}

		// Protected routes: API key first, bearer token as fallback
		protected := api.Group("")
		protected.Use(apiKeyMiddleware.APIKeyAuthMiddleware())
		protected.Use(bearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			// Auth protected routes
			authProtected := protected.Group("/auth")
			{
				authProtected.POST("/logout", authHandler.Logout)
				authProtected.GET("/profile", authHandler.GetProfile)
				authProtected.POST("/change-password", authHandler.ChangePassword)
			}

			// API key routes
			apiKeys := protected.Group("/api-key")
			{
				apiKeys.POST("/generate", apiKeyHandler.Generate)
				apiKeys.GET("", apiKeyHandler.Get)
			}

			// Submission routes
			submissions := protected.Group("/submissions")
			{
				submissions.POST("", writeLimiter.Middleware(), submissionHandler.CreateSubmission)
				submissions.GET("", submissionHandler.GetSubmissions)
				submissions.POST("/stale-check", statusHandler.StaleCheck)
				submissions.GET("/:id", submissionHandler.GetSubmission)
				submissions.PATCH("/:id", submissionHandler.UpdateSubmission)
				submissions.GET("/:id/status", statusHandler.GetStatus)
				submissions.POST("/:id/fix-status", statusHandler.FixStatus)
				submissions.GET("/:id/components/:component/view", submissionHandler.GetComponentView)
			}

			// Chat routes
			protected.POST("/chat", writeLimiter.Middleware(), chatHandler.Chat)

			// Admin routes (requires admin privileges)
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnlyMiddleware())
			{
				admin.POST("/register", adminHandler.Register)
				admin.GET("/users", adminHandler.GetAllUsers)
				admin.GET("/submissions", adminHandler.GetAllSubmissions)
				admin.GET("/submissions/export", adminHandler.ExportSubmissions)
			}
		}
	}

	return r
}

func rateLimitFromEnv() (int, time.Duration) {
	limit := 30
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	window := time.Minute
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			window = d
		}
	}

	return limit, window
}
