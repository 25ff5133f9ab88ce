package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/studyhall/mastery-api/internal/catalog"
	"github.com/studyhall/mastery-api/internal/config"
	"github.com/studyhall/mastery-api/internal/domain/srs"
	"github.com/studyhall/mastery-api/internal/platform/postgres"
	"github.com/studyhall/mastery-api/internal/service"
	"github.com/studyhall/mastery-api/internal/service/auth"
	"github.com/studyhall/mastery-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	scheduleStore    store.CardScheduleStore
	progressStore    store.UserProgressStore
	dailyStore       store.DailyProgressStore
	achievementStore store.AchievementStore

	// Services
	jwtVerifier        auth.JWTVerifier
	srsService         srs.Service
	ledger             service.ProgressLedger
	xpService          service.XPService
	achievementService service.AchievementService
	streakService      service.StreakService
	reviewService      service.ReviewService
	activityService    service.ActivityService
}

// buildApplication wires together all application dependencies.
// The achievement catalog is synced into storage before the wiring is
// considered complete, so a broken catalog fails startup rather than
// surfacing as missing unlocks at request time.
func buildApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	app := &application{
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	if err := app.wireDependencies(); err != nil {
		app.cleanup()
		return nil, err
	}

	return app, nil
}

// wireDependencies constructs stores and services in dependency order.
func (app *application) wireDependencies() error {
	app.scheduleStore = postgres.NewPostgresCardScheduleStore(app.db, app.logger)
	app.progressStore = postgres.NewPostgresUserProgressStore(app.db, app.logger)
	app.dailyStore = postgres.NewPostgresDailyProgressStore(app.db, app.logger)
	app.achievementStore = postgres.NewPostgresAchievementStore(app.db, app.logger)

	jwtVerifier, err := auth.NewJWTVerifier(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT verifier: %w", err)
	}
	app.jwtVerifier = jwtVerifier

	app.srsService = srs.NewDefaultService()

	registry, err := catalog.NewRegistry(catalog.DefaultDefinitions())
	if err != nil {
		return fmt.Errorf("failed to build achievement catalog: %w", err)
	}

	app.ledger, err = service.NewProgressLedger(app.progressStore, app.dailyStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create progress ledger: %w", err)
	}

	app.xpService, err = service.NewXPService(app.progressStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create XP service: %w", err)
	}

	app.achievementService, err = service.NewAchievementService(
		registry,
		app.achievementStore,
		app.xpService,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create achievement service: %w", err)
	}

	app.streakService, err = service.NewStreakService(
		app.db,
		app.progressStore,
		app.achievementService,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create streak service: %w", err)
	}

	app.reviewService, err = service.NewReviewService(
		app.scheduleStore,
		app.srsService,
		app.ledger,
		app.xpService,
		app.streakService,
		app.achievementService,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create review service: %w", err)
	}

	app.activityService, err = service.NewActivityService(
		app.ledger,
		app.xpService,
		app.streakService,
		app.achievementService,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity service: %w", err)
	}

	if err := app.achievementService.SyncCatalog(context.Background()); err != nil {
		return fmt.Errorf("failed to sync achievement catalog: %w", err)
	}
	app.logger.Info("Achievement catalog synced", "definitions", len(registry.All()))

	return nil
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run(ctx context.Context) error {
	router := app.setupRouter()
	return app.startHTTPServer(ctx, router)
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
