package server

import (
	"context"
	"log"
	"time"

	"github.com/erivelton/subscriply/internal/config"
	"github.com/erivelton/subscriply/internal/handler"
	"github.com/erivelton/subscriply/internal/middleware"
	"github.com/erivelton/subscriply/internal/repository"
	"github.com/erivelton/subscriply/internal/service"
	"github.com/erivelton/subscriply/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	planRepo := repository.NewMongoPlanRepository(deps.MongoDB)
	customerRepo := repository.NewMongoCustomerRepository(deps.MongoDB)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	settingsRepo := repository.NewMongoSettingsRepository(deps.MongoDB)
	reportRepo := repository.NewMongoReportRepository(deps.MongoDB)
	refreshTokenRepo := repository.NewMongoRefreshTokenRepository(deps.MongoDB)

	// Initialize services
	tokenService := service.NewTokenService(deps.Config.JWT, refreshTokenRepo, userRepo)
	authService := service.NewAuthService(userRepo, settingsRepo, tokenService)
	planService := service.NewPlanService(planRepo, customerRepo)
	customerService := service.NewCustomerService(customerRepo, planRepo)
	dashboardService := service.NewDashboardService(customerRepo, planRepo, reportRepo)

	var backupService *service.BackupService
	if deps.Config.S3.Enabled {
		backupRepo, err := repository.NewS3BackupRepository(context.Background(), deps.Config.S3)
		if err != nil {
			log.Printf("Warning: Failed to initialize backup storage: %v", err)
		} else {
			backupService = service.NewBackupService(userRepo, planRepo, customerRepo, reportRepo, backupRepo)
		}
	}

	seeder := repository.NewSeeder(planRepo, customerRepo, userRepo, settingsRepo, reportRepo)
	if err := seeder.EnsureDefaults(context.Background(), deps.Config.Seed.AdminPassword); err != nil {
		log.Printf("Warning: Failed to seed defaults: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, tokenService)
	planHandler := handler.NewPlanHandler(planService)
	customerHandler := handler.NewCustomerHandler(customerService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	adminHandler := handler.NewAdminHandler(authService, backupService, seeder)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Subscriply API",
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	if deps.RedisClient != nil {
		app.Use(middleware.IdempotencyMiddleware(deps.RedisClient, 10*time.Minute))
	}

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "subscriply",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	authed := v1.Group("", middleware.VerifySubscriplyToken(deps.Config.JWT.Secret))
	authed.Get("/auth/me", authHandler.Me)

	// Plan catalog
	plans := authed.Group("/plans")
	plans.Post("/", planHandler.CreatePlan)
	plans.Get("/", planHandler.ListPlans)
	plans.Get("/:id", planHandler.GetPlan)
	plans.Put("/:id", planHandler.UpdatePlan)
	plans.Delete("/:id", planHandler.DeletePlan)

	// Customers and their subscriptions
	customers := authed.Group("/customers")
	customers.Post("/", customerHandler.CreateCustomer)
	customers.Get("/", customerHandler.ListCustomers)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Put("/:id", customerHandler.UpdateCustomer)
	customers.Delete("/:id", customerHandler.DeleteCustomer)
	customers.Post("/:id/subscriptions", customerHandler.AddSubscription)
	customers.Delete("/:id/subscriptions/:subId", customerHandler.RemoveSubscription)
	customers.Post("/:id/subscriptions/:subId/renew", customerHandler.RenewSubscription)

	// Dashboard and reports
	authed.Get("/dashboard/summary", dashboardHandler.GetSummary)
	authed.Get("/reports", dashboardHandler.ListReportCards)
	authed.Patch("/reports/:id", dashboardHandler.SetReportCardVisibility)

	// Admin area
	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", adminHandler.CreateUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/settings", adminHandler.GetSettings)
	admin.Put("/settings", adminHandler.UpdateSettings)
	admin.Post("/backups", adminHandler.CreateBackup)
	admin.Post("/reset", adminHandler.ResetDemoData)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
