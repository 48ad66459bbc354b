package routes

import (
	"saas-platform-backend/internal/api/handlers"
	"saas-platform-backend/internal/api/middleware"
	"saas-platform-backend/internal/auth"
	"saas-platform-backend/internal/config"
	"saas-platform-backend/internal/mailer"
	"saas-platform-backend/internal/metrics"
	"saas-platform-backend/internal/repository"
	"saas-platform-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(metrics.Middleware())

	// Initialize validator
	validator := validator.New()

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize token service and auth middleware
	tokenService := auth.NewTokenService(cfg)
	authMiddleware := auth.NewAuthMiddleware(tokenService)

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo, validator)
	authService := service.NewAuthService(tenantRepo, userRepo, tokenService, cfg, validator)
	resetService := service.NewPasswordResetService(userRepo, mailer.FromConfig(cfg), cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, resetService, cfg.IsDevelopment())
	tenantHandler := handlers.NewTenantHandler(tenantService, cfg.IsDevelopment())

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Prometheus scrape endpoint
	router.GET("/metrics", metrics.Handler())

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	// Auth routes
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/reset-password", authHandler.ResetPassword)
		authRoutes.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
		authRoutes.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
	}

	// Tenant routes, bearer-token protected
	tenants := v1.Group("/tenants")
	tenants.Use(authMiddleware.RequireAuth())
	{
		tenants.POST("", tenantHandler.CreateTenant)
		tenants.GET("", tenantHandler.ListTenants)
		tenants.GET("/identifier-available", tenantHandler.CheckIdentifier)
		tenants.GET("/by-identifier/:identifier", tenantHandler.GetTenantByIdentifier)
		tenants.GET("/:id", tenantHandler.GetTenant)
		tenants.PUT("/:id", tenantHandler.UpdateTenant)
		tenants.DELETE("/:id", tenantHandler.DeleteTenant)
	}

	return router
}
