// Package server initializes and runs the application: it opens the
// database, applies migrations, assembles the service layer, and runs
// the HTTP API plus the periodic session sweep until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/config"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/httpapi"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/repomanager"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	auth   *services.AuthService
	api    *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	auth, err := services.NewAuthService(db, rm, cfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	svc := httpapi.Services{
		Auth:        auth,
		Projects:    services.NewProjectService(db, rm, logger),
		Tasks:       services.NewTaskService(db, rm, logger),
		Vendors:     services.NewVendorService(db, rm, logger),
		Parts:       services.NewPartService(db, rm, logger),
		Budgets:     services.NewBudgetService(db, rm, logger),
		Expenses:    services.NewExpenseService(db, rm, logger),
		Maintenance: services.NewMaintenanceService(db, rm, logger),
		Attachments: services.NewAttachmentService(db, rm, cfg, logger),
	}

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		auth:   auth,
		api:    httpapi.NewServer(cfg, svc, auth, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runSessionSweep reclaims defunct session rows once at boot and then on
// every tick until shutdown. A failed sweep is logged and retried on the
// next tick.
func (app *App) runSessionSweep(ctx context.Context) {
	app.auth.CleanupExpiredSessions(ctx)

	ticker := time.NewTicker(app.config.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.auth.CleanupExpiredSessions(ctx)
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.api.Serve(ctx); err != nil {
			app.logger.Error(ctx, "http server stopped", "error", err)
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSessionSweep(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db failed", "error", err)
	}
	app.logger.Info(ctx, "app stopped")
}
