package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockkeeper/internal/config"
	"stockkeeper/internal/infrastructure/database"
	"stockkeeper/internal/infrastructure/logger"
	"stockkeeper/internal/infrastructure/telemetry"
	"stockkeeper/internal/inventory"
	"stockkeeper/internal/product"
	"stockkeeper/internal/report"
)

// App is everything a command needs once configuration is resolved.
type App struct {
	Inventory inventory.Inventory
	Reports   *report.Service
	Catalog   product.CatalogUseCase
	Logger    *zap.Logger
	ReportDir string
	Location  *time.Location

	closers []func() error
}

// BootstrapFunc builds the App from the resolved configuration.
type BootstrapFunc func(ctx context.Context, cfg *config.Config) (*App, error)

// Bootstrap opens the configured database, migrates it and wires the
// inventory, telemetry and reporting layers on top.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	zapLogger = zapLogger.With(zap.String("runId", uuid.NewString()))

	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}

	tp, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		db.Close()
		return nil, err
	}

	app, err := NewApp(db, dialect, cfg, zapLogger, tp)
	if err != nil {
		db.Close()
		return nil, err
	}

	app.closers = append(app.closers,
		func() error {
			zapLogger.Sync()
			return nil
		},
		db.Close,
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return tp.Shutdown(ctx)
		},
	)

	zapLogger.Debug("database ready", zap.String("driver", dialect.Driver()))
	return app, nil
}

// NewApp wires the modules over an already migrated database.
func NewApp(db *sql.DB, dialect database.Dialect, cfg *config.Config, zapLogger *zap.Logger, tp *telemetry.Provider) (*App, error) {
	store := inventory.NewModule(db, dialect, cfg.Inventory, zapLogger)

	instrumented, err := inventory.NewInstrumentedStore(store, tp.Tracer(), tp.Meter())
	if err != nil {
		return nil, err
	}
	inv := newRetryingInventory(instrumented, cfg.Retry.MaxAttempts, dialect.IsTransientConflict, zapLogger)

	return &App{
		Inventory: inv,
		Reports:   report.NewService(inv, cfg.Inventory.Location, zapLogger),
		Catalog:   product.NewCatalogModule(inv, zapLogger),
		Logger:    zapLogger,
		ReportDir: cfg.Report.Directory,
		Location:  cfg.Inventory.Location,
	}, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
