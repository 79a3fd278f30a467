package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/hifz-api/internal/api"
	"github.com/phrazzld/hifz-api/internal/config"
	"github.com/phrazzld/hifz-api/internal/events"
	"github.com/phrazzld/hifz-api/internal/platform/logger"
	"github.com/phrazzld/hifz-api/internal/platform/postgres"
	"github.com/phrazzld/hifz-api/internal/scheduler"
	"github.com/phrazzld/hifz-api/internal/service"
)

const (
	dbPingTimeout = 5 * time.Second

	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// application wires configuration, database, stores, services, and the
// HTTP server together. Close releases the resources it owns.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	server *http.Server
}

// newApplication builds the full dependency graph and runs pending
// database migrations.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log := logger.Setup(cfg.Server)
	slog.SetDefault(log)

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	handler, err := buildRouter(cfg, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &application{
		cfg:    cfg,
		logger: log,
		db:     db,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}

	return app, nil
}

// openDatabase opens a pooled connection to Postgres and verifies it
// with a bounded ping.
func openDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
	log *slog.Logger,
) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// buildServices constructs the service layer on top of the store layer.
func buildServices(
	cfg *config.Config,
	db *sql.DB,
	log *slog.Logger,
) (service.ScheduleService, service.MasteryService, service.CorpusService, service.ProgressService, error) {
	scheduleStore := postgres.NewPostgresScheduleStore(db, log)
	masteryStore := postgres.NewPostgresMasteryStore(db, log)
	chapterStore := postgres.NewPostgresChapterStore(db, log)

	scheduleRepo := service.NewScheduleRepositoryAdapter(scheduleStore, db)
	masteryRepo := service.NewMasteryRepositoryAdapter(masteryStore, db)
	chapterRepo := service.NewChapterRepositoryAdapter(chapterStore, db)

	params, err := scheduler.ParamsFromConfig(cfg.Scheduler)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("invalid scheduler configuration: %w", err)
	}

	emitter := events.NewInMemoryEmitter(log)
	emitter.RegisterHandler(events.NewLoggingHandler(log))

	scheduleService, err := service.NewScheduleService(
		scheduleRepo,
		masteryRepo,
		chapterRepo,
		params,
		log,
		service.WithScheduleEvents(emitter),
	)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create schedule service: %w", err)
	}

	masteryService, err := service.NewMasteryService(
		masteryRepo,
		chapterRepo,
		log,
		service.WithMasteryEvents(emitter),
	)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create mastery service: %w", err)
	}

	corpusService, err := service.NewCorpusService(
		chapterRepo,
		log,
		service.WithCorpusEvents(emitter),
	)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create corpus service: %w", err)
	}

	progressService, err := service.NewProgressService(masteryRepo, chapterRepo, log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	return scheduleService, masteryService, corpusService, progressService, nil
}

// buildRouter constructs handlers and mounts the API routes.
func buildRouter(cfg *config.Config, db *sql.DB, log *slog.Logger) (http.Handler, error) {
	scheduleService, masteryService, corpusService, progressService, err := buildServices(
		cfg,
		db,
		log,
	)
	if err != nil {
		return nil, err
	}

	defaultTenant := cfg.Scheduler.DefaultTenant

	return newRouter(routerDeps{
		scheduleHandler: api.NewScheduleHandler(scheduleService, defaultTenant),
		masteryHandler:  api.NewMasteryHandler(masteryService, defaultTenant),
		chapterHandler:  api.NewChapterHandler(corpusService, masteryService, defaultTenant),
		progressHandler: api.NewProgressHandler(progressService, defaultTenant),
		db:              db,
		logger:          log,
	}), nil
}

// Close releases resources owned by the application.
func (a *application) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		}
	}
}
