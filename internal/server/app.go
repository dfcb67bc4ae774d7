// Package server initializes and runs the main application server.
// It wires the registry, the blob store and the event sink together,
// handles graceful shutdown and starts the HTTP server.
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

	"github.com/dmitrijs2005/secureshare/internal/blobstore"
	"github.com/dmitrijs2005/secureshare/internal/events"
	"github.com/dmitrijs2005/secureshare/internal/logging"
	"github.com/dmitrijs2005/secureshare/internal/server/config"
	"github.com/dmitrijs2005/secureshare/internal/server/httpapi"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secureshare/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	server   *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	var db *sql.DB
	var repos repomanager.RepositoryManager

	if cfg.DatabaseDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repos = repomanager.NewPostgresRepositoryManager()
		if err := repos.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
	} else {
		repos = repomanager.NewInMemoryRepositoryManager()
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	sink := events.NewRegistrySink(repos.Notifications(db), logger)

	vault := services.NewVaultService(db, repos, blobs, sink, []byte(cfg.SecretKey), logger)
	notifications := services.NewNotificationService(db, repos)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := httpapi.NewServer(cfg, logger, vault, notifications, db, registry)
	if err != nil {
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: cfg, logger: logger, db: db, registry: registry, server: srv}, nil
}

// newBlobStore picks the ciphertext backend: an S3-compatible bucket when an
// endpoint is configured, otherwise a local directory, otherwise memory.
func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, error) {
	if cfg.S3BaseEndpoint != "" {
		return blobstore.NewS3Store(ctx, blobstore.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	}
	if cfg.UploadDir != "" {
		return blobstore.NewLocalStore(cfg.UploadDir)
	}
	return blobstore.NewMemoryStore(), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}
}
