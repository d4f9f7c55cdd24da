package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"finance-progression-system/handlers"
	"finance-progression-system/middleware"
	"finance-progression-system/models"
	"finance-progression-system/services"
	"finance-progression-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.AppUser{},
		&models.UserProgress{},
		&models.Level{},
		&models.Milestone{},
		&models.UserAchievement{},
		&models.Badge{},
		&models.UserBadge{},
		&models.UserStreak{},
		&models.GameActivity{},
		&models.Notification{},
		&models.NotificationSettings{},
		&models.Transaction{},
		&models.Budget{},
		&models.FinancialGoal{},
		&models.Investment{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Legacy databases may carry duplicate milestone rows from repeated
	// seed runs; merge them before seeding by code.
	if err := services.DedupeMilestones(db); err != nil {
		log.Fatal("failed to de-duplicate milestone catalog:", err)
	}
	if err := services.SeedCatalogs(db); err != nil {
		log.Fatal("failed to seed catalogs:", err)
	}

	engagementService := services.NewEngagementService(db)
	notificationService := engagementService.Notifications

	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("PROGRESSION_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("PROGRESSION_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewUserSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker.Start(ctx)
	notificationService.StartDigestScheduler()

	handlers.SetupProgressionRoutes(app, engagementService)
	handlers.SetupNotificationRoutes(app, notificationService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ User Sync Worker running")
	log.Println("✅ Daily digest scheduler running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
