package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyforge/keyforge-be/internal/api"
	"github.com/keyforge/keyforge-be/internal/auth"
	"github.com/keyforge/keyforge-be/internal/config"
	"github.com/keyforge/keyforge-be/internal/database"
	"github.com/keyforge/keyforge-be/internal/limiter"
	"github.com/keyforge/keyforge-be/internal/logger"
	"github.com/keyforge/keyforge-be/internal/monitoring"
	"github.com/keyforge/keyforge-be/internal/realtime"
	"github.com/keyforge/keyforge-be/internal/services"
	"github.com/keyforge/keyforge-be/internal/session"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the activity feed hub
	hub := realtime.NewHub()
	go hub.Run()

	// Set up sessions, auth and services
	sessions := session.NewStore(db, cfg.SessionTTL)
	tokens := auth.NewManager(cfg.JWTSecret)
	attempts := limiter.NewMemory(5, 5*time.Minute)

	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db)
	masterService := services.NewMasterPasswordService(db, sessions, attempts, eventService)
	entryService := services.NewEntryService(db, eventService)

	// Set up and run the background session sweeper
	sweeper, err := monitoring.NewSessionSweeper(sessions, cfg.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session sweeper")
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(cfg.AllowedOrigin, tokens, sessions, hub,
		userService, masterService, entryService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
