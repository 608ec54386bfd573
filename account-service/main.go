package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"orghub-backend/account-service/handlers"
	"orghub-backend/account-service/middleware"
	"orghub-backend/account-service/services"
	"orghub-backend/shared/config"
	"orghub-backend/shared/database"
	"orghub-backend/shared/database/repository"
	"orghub-backend/shared/utils/cache"
)

// getIntConfig is a helper function to get integer configuration values
func getIntConfig(key string, defaultValue int) int {
	strValue := config.GetConfig().GetField(key)
	if strValue == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: Could not convert %s value '%s' to int, using default %d", key, strValue, defaultValue)
		return defaultValue
	}

	return intValue
}

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()
	cfg.ValidateSecrets()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Redis is optional; rate limits fall back to per-instance counters
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("Warning: Redis unavailable: %v", err)
	}

	// Repositories and collaborators
	userRepo := repository.NewUserRepository(database.GetDB())
	orgRepo := repository.NewOrganizationRepository(database.GetDB())
	mailer := services.NewEmailService(cfg)

	// Handlers
	userHandler := handlers.NewUserHandler(userRepo, mailer, cfg)
	orgHandler := handlers.NewOrganizationHandler(orgRepo, userRepo, mailer, cfg)

	// Rate limiter
	rateLimiterCleanupTime := 30 * time.Minute
	rateLimiter := middleware.NewRateLimiter(rateLimiterCleanupTime)

	loginConfig := middleware.RateLimitConfig{
		MaxRequests:   getIntConfig("LoginRateLimitMaxAttempts", 5),
		TimeWindow:    time.Duration(getIntConfig("LoginRateLimitWindowSeconds", 300)) * time.Second,
		BlockDuration: time.Duration(getIntConfig("LoginRateLimitBlockMinutes", 30)) * time.Minute,
	}

	registerConfig := middleware.RateLimitConfig{
		MaxRequests:   getIntConfig("RegisterRateLimitMaxAttempts", 3),
		TimeWindow:    time.Duration(getIntConfig("RegisterRateLimitWindowHours", 24)) * time.Hour,
		BlockDuration: time.Duration(getIntConfig("RegisterRateLimitBlockHours", 48)) * time.Hour,
	}

	passwordResetConfig := middleware.RateLimitConfig{
		MaxRequests:   getIntConfig("PasswordResetMaxAttempts", 3),
		TimeWindow:    time.Duration(getIntConfig("PasswordResetWindowMinutes", 60)) * time.Minute,
		BlockDuration: time.Duration(getIntConfig("PasswordResetBlockHours", 24)) * time.Hour,
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
	}))

	authRequired := middleware.AuthMiddleware(userRepo)

	// User endpoints
	users := router.Group("/api/v0/users")
	{
		users.POST("/sign-up", rateLimiter.RegistrationRateLimitMiddleware(registerConfig), userHandler.SignUp)
		users.POST("/sign-in", rateLimiter.LoginRateLimitMiddleware(loginConfig), userHandler.SignIn)
		users.POST("/sign-out", authRequired, userHandler.SignOut)
		users.PATCH("/update-user", authRequired, userHandler.UpdateUser)
		users.POST("/request-forgot-password", authRequired, rateLimiter.PasswordResetRateLimitMiddleware(passwordResetConfig), userHandler.RequestForgotPassword)
		users.GET("/reset-forgotten-password/:id", userHandler.ValidateResetToken)
		users.PATCH("/reset-forgotten-password/:id", rateLimiter.PasswordResetRateLimitMiddleware(passwordResetConfig), userHandler.ResetForgottenPassword)
	}

	// Organization endpoints
	orgs := router.Group("/api/v0/organizations")
	{
		orgs.POST("/create-org", orgHandler.CreateOrganization)
		orgs.POST("/update-org", orgHandler.UpdateOrganization)
		orgs.POST("/delete-org", orgHandler.DeleteOrganization)
		orgs.POST("/add-member", orgHandler.AddMember)
		orgs.POST("/invite-user", orgHandler.InviteUser)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "account",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("Account Service starting on port %s...", cfg.ServerPort)
	router.Run(":" + cfg.ServerPort)
}
