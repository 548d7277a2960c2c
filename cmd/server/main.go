package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"eggadventure/internal/config"
	"eggadventure/internal/database"
	"eggadventure/internal/game"
	"eggadventure/internal/handlers"
	"eggadventure/internal/repository"
	"eggadventure/internal/service"
)

func main() {
	// Load .env in development; a missing file is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The rooms map is static data; refuse to boot if an edit broke it
	if err := game.ValidateRooms(); err != nil {
		log.Fatalf("Invalid rooms map: %v", err)
	}

	db, err := database.InitializeWithType(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	profileService := service.NewProfileService(profileRepo)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	var mailer game.Mailer
	if emailService.IsEnabled() {
		mailer = emailService
	}
	manager := game.NewManager(profileService, mailer)

	// Handlers
	middleware := handlers.NewMiddleware(authService)
	googleOAuth := handlers.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret)
	authHandler := handlers.NewAuthHandler(authService, emailService, manager, googleOAuth, cfg.OAuthRedirectBaseURL)
	gameHandler := handlers.NewGameHandler(manager)
	parentHandler := handlers.NewParentHandler(manager)

	mux := handlers.NewRouter(authHandler, gameHandler, parentHandler, middleware)
	handler := handlers.Logging(mux)

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // the events endpoint streams indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Flush pending profile writes before the process exits
	manager.CloseAll()
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(context.Background()); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
