package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"apartment-portal/internal/auth"
	"apartment-portal/internal/config"
	"apartment-portal/internal/database"
	"apartment-portal/internal/handlers"
	"apartment-portal/internal/notify"
	"apartment-portal/internal/payments"
	"apartment-portal/internal/portal"
	"apartment-portal/internal/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/portal.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database based on configuration
	store, err := openStore(appConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	if appConfig.Database.SeedDemo {
		if err := store.Seed(); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Core wiring: notifier, settlement gateway, session provider, portal service
	notifier := notify.NewLogNotifier()

	gateway := payments.NewGateway(
		appConfig.Payment.GetSettlementDelay(),
		appConfig.Payment.SuccessRate,
	)
	log.Printf("Settlement gateway initialized: delay=%s success_rate=%.2f",
		appConfig.Payment.GetSettlementDelay(), appConfig.Payment.SuccessRate)

	tokens := auth.NewTokenManager(appConfig.Auth.TokenSecret, appConfig.Auth.GetTokenTTL())
	sessions := auth.NewSessionProvider(tokens, func(ctx context.Context, email string) (auth.Identity, error) {
		user, err := store.GetUserByEmail(email)
		if err != nil {
			return auth.Identity{}, err
		}
		return auth.IdentityFromUser(user), nil
	})
	sessions.OnIdentityChange(func(ident auth.Identity, signedIn bool) {
		if signedIn {
			log.Printf("Auth: %s signed in (%s)", ident.Email, ident.Role)
		} else {
			log.Printf("Auth: %s signed out", ident.Email)
		}
	})

	svc := portal.NewService(store, notifier, gateway)

	// Start rent reminder scheduler
	reminder := scheduler.NewRentReminder(store, notifier, appConfig)
	if err := reminder.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer reminder.Stop()

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", healthCheck)

	handler := handlers.NewPortalHandler(svc, sessions)
	handler.RegisterRoutes(r)

	port := getEnv("PORT", appConfig.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// openStore opens the configured database backend
func openStore(cfg *config.Config) (*database.Store, error) {
	dbType := cfg.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "sqlite")
	}

	if dbType == "postgres" {
		log.Println("Using PostgreSQL")
		pgCfg := cfg.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		return database.NewPostgresStore(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "portal_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "portal_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "portal_db"),
			getEnvOrConfig(pgCfg.SSLMode, "DB_SSLMODE", "disable"),
		)
	}

	log.Println("Using SQLite")
	path := getEnvOrConfig(cfg.Database.SQLite.Path, "DB_PATH", "portal.db")
	return database.NewSQLiteStore(path)
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig prefers the config value, then the environment, then a default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
