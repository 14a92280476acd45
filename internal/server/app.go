// Package server wires configuration, storage, services and the HTTP
// server together and runs them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/piiquante/internal/logging"
	"github.com/dmitrijs2005/piiquante/internal/server/assets"
	"github.com/dmitrijs2005/piiquante/internal/server/config"
	"github.com/dmitrijs2005/piiquante/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/piiquante/internal/server/rest"
	"github.com/dmitrijs2005/piiquante/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

// NewApp opens the database, applies migrations and builds the asset store
// selected by the configuration.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(c.LogLevel, c.LogFormat, os.Stdout)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := newAssetStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("asset store init error: %w", err)
	}

	us, err := services.NewUserService(db, rm, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ss := services.NewSauceService(db, rm, store, logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: rest.NewServer(c, logger, us, ss, db),
	}, nil
}

func newAssetStore(ctx context.Context, c *config.Config) (assets.Store, error) {
	switch c.AssetBackend {
	case config.AssetBackendS3:
		return assets.NewS3Store(ctx, assets.S3Config{
			AccessKey:     c.S3RootUser,
			SecretKey:     c.S3RootPassword,
			Region:        c.S3Region,
			Endpoint:      c.S3BaseEndpoint,
			Bucket:        c.S3Bucket,
			PublicBaseURL: c.S3PublicBaseURL,
			PresignTTL:    c.S3PresignTTL,
		})
	default:
		return assets.NewFSStore(c.ImagesDir, c.PublicBaseURL)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is canceled or a signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "asset_backend", app.config.AssetBackend)

	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close failed", "error", err)
		}
	}()

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
