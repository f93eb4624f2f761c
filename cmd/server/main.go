package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "quickcred-backend/docs"
	"quickcred-backend/internal/adapters/http/middleware"
	"quickcred-backend/internal/adapters/http/routes"
	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

// @title QuickCred API
// @version 1.0
// @description Loan origination backend: applications, approvals, disbursement and repayment tracking
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect database: %v", err)
	}

	// Run migrations
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed settings row and default admin
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Fatalf("❌ Failed to seed database: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "QuickCred API",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Global middleware
	middleware.Setup(app, cfg)

	// Routes and dependency wiring
	scheduler := routes.Setup(app, db, cfg)

	// Start the repayment scheduler
	if err := scheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")

		scheduler.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server shutdown error: %v", err)
		}

		if err := config.CloseDatabase(db); err != nil {
			log.Printf("❌ Database close error: %v", err)
		}
	}()

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
