// Package server wires configuration, persistence, asset storage and the
// HTTP API together and runs them until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/assets"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/httpapi"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	backend, err := newAssetBackend(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("asset storage init error: %w", err)
	}

	tokens := auth.NewTokens(c.SecretKey, c.AccessTokenValidityDuration)
	us := services.NewUserService(db, rm, tokens, logger)
	ps := services.NewProductService(db, rm, assets.NewStore(backend, logger), logger)

	router := httpapi.NewRouter(httpapi.Deps{
		Users:       us,
		Products:    ps,
		Assets:      backend,
		Logger:      logger,
		CORSOrigins: c.CORSAllowedOrigins,
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewServer(c.EndpointAddrHTTP, router, logger),
	}, nil
}

func newAssetBackend(ctx context.Context, c *config.Config) (assets.Backend, error) {
	switch c.StorageBackend {
	case config.StorageLocal, "":
		return assets.NewLocalBackend(c.UploadDir)
	case config.StorageS3:
		return assets.NewS3Backend(ctx, assets.S3Options{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
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

// Run serves HTTP until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
