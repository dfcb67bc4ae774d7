// Package httpapi exposes the vault over HTTP. Every request runs with a
// session resolved from the signed session cookie; handlers stay thin and
// delegate to the application services.
package httpapi

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/logging"
	"github.com/dmitrijs2005/secureshare/internal/server/config"
	"github.com/dmitrijs2005/secureshare/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop
// signal.
const shutdownTimeout = 5 * time.Second

type Server struct {
	config        *config.Config
	logger        logging.Logger
	vault         *services.VaultService
	notifications *services.NotificationService
	db            *sql.DB
	app           *fiber.App
}

func NewServer(cfg *config.Config, l logging.Logger, vault *services.VaultService,
	notifications *services.NotificationService, db *sql.DB, reg *prometheus.Registry) (*Server, error) {

	s := &Server{
		config:        cfg,
		logger:        l.With("module", "http_server"),
		vault:         vault,
		notifications: notifications,
		db:            db,
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxUploadSize) + 1<<20, // headroom for multipart framing
		ErrorHandler: ErrorHandler(),
	})

	promMiddleware, err := NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	app.Use(RequestID())
	app.Use(SecurityHeaders())
	app.Use(RequestLogger(s.logger))
	app.Use(promMiddleware.Handler())

	app.Get("/healthz", s.handleHealthz)
	app.Get("/metrics", MetricsHandler(reg))

	api := app.Group("/api", Session(common.SessionCookieName, []byte(cfg.SecretKey), cfg.SessionValidityDuration))
	api.Post("/upload", s.handleUpload)
	api.Get("/download/:id", s.handleDownload)
	api.Get("/files", s.handleFiles)
	api.Post("/search", s.handleSearch)
	api.Get("/notifications", s.handleNotifications)
	api.Post("/notifications/:id/read", s.handleNotificationRead)

	s.app = app
	return s, nil
}

// Run starts accepting connections and blocks until ctx is cancelled, then
// drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddrHTTP)

	if err := s.app.Listen(s.config.EndpointAddrHTTP); err != nil {
		return err
	}

	return nil
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}
