// Package apiserver wires the HTTP surface of the analyzer: routing,
// middleware and graceful shutdown.
package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cloudshift/migration-analyzer/internal/analysis"
	"github.com/cloudshift/migration-analyzer/internal/config"
	handlers "github.com/cloudshift/migration-analyzer/internal/handlers/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/service"
	"github.com/cloudshift/migration-analyzer/internal/store"
	"github.com/cloudshift/migration-analyzer/pkg/log"
	"github.com/cloudshift/migration-analyzer/pkg/metrics"
)

const gracefulShutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
	logger   *zap.Logger
}

// New returns a new instance of the migration-analyzer server.
func New(cfg *config.Config, store store.Store, listener net.Listener, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
		logger:   logger,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		chiMiddleware.RequestID,
		log.Logger(s.logger, "api_server"),
		chiMiddleware.Recoverer,
	)

	sessionService := service.NewSessionService(s.store, analysis.AssumptionsFromConfig(s.cfg))
	reportService := service.NewReportService(sessionService)

	handlers.NewServiceHandler(sessionService, reportService).RegisterRoutes(router)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
