package routes

import (
	"quickcred-backend/internal/adapters/http/handlers"
	"quickcred-backend/internal/adapters/http/middleware"
	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/config"
	"quickcred-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and registers all routes
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.SchedulerService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	repaymentRepo := repositories.NewRepaymentRepository(db)
	chargeRepo := repositories.NewChargeRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Services
	notifyService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT)
	userService := services.NewUserService(userRepo)
	applicationService := services.NewApplicationService(
		applicationRepo, loanRepo, repaymentRepo, chargeRepo,
		settingsRepo, userRepo, notifyService,
	)
	loanService := services.NewLoanService(loanRepo, repaymentRepo, notifyService)
	settingsService := services.NewSettingsService(settingsRepo)
	analyticsService := services.NewAnalyticsService(db)
	schedulerService := services.NewSchedulerService(loanRepo, repaymentRepo, refreshTokenRepo, notifyService)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, cfg.IsProd())
	userHandler := handlers.NewUserHandler(userService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	loanHandler := handlers.NewLoanHandler(loanService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Health and API docs
	app.Get("/health", healthHandler.Check)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.DatabaseCheck(db))

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Authenticated routes
	authed := api.Group("", middleware.AuthMiddleware(cfg.JWT.Secret))

	authed.Get("/auth/me", userHandler.GetMe)
	authed.Post("/auth/logout-all", authHandler.LogoutAll)

	users := authed.Group("/users")
	users.Get("/me", userHandler.GetMe)
	users.Patch("/me", userHandler.UpdateMe)

	applications := authed.Group("/applications")
	applications.Post("/", applicationHandler.Create)
	applications.Get("/my", applicationHandler.ListMine)
	applications.Get("/:id", applicationHandler.GetMine)

	loans := authed.Group("/loans")
	loans.Get("/my", loanHandler.ListMine)
	loans.Get("/:id/schedule", loanHandler.GetMySchedule)

	notifications := authed.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)

	// Admin routes
	admin := authed.Group("/admin", middleware.AdminOnly())

	admin.Get("/users", userHandler.List)
	admin.Delete("/users/:id", userHandler.Delete)
	admin.Patch("/users/:id/kyc", userHandler.SetKYC)

	admin.Get("/applications", applicationHandler.List)
	admin.Get("/applications/:id", applicationHandler.Get)
	admin.Patch("/applications/:id/status", applicationHandler.ChangeStatus)
	admin.Patch("/applications/:id/progress", applicationHandler.UpdateProgress)
	admin.Post("/applications/:id/confirm-fee", applicationHandler.ConfirmFee)
	admin.Get("/applications/:id/charges", applicationHandler.GetCharges)

	admin.Get("/loans", loanHandler.List)
	admin.Get("/loans/:id", loanHandler.Get)
	admin.Post("/loans/:id/repayments/:no/pay", loanHandler.RecordRepayment)

	admin.Get("/analytics", analyticsHandler.Dashboard)

	admin.Get("/settings", settingsHandler.Get)
	admin.Put("/settings", settingsHandler.Update)

	return schedulerService
}
