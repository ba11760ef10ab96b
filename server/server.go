package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/selimhanmrl/kupovi/cluster"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
	idleTimeout            = 60 * time.Second
)

// Options configures the API server.
type Options struct {
	Address         string
	ShutdownTimeout time.Duration
	// Registry receives the server metrics and backs /metrics. A private
	// registry is created when nil.
	Registry *prometheus.Registry
}

// APIServer serves the dashboard inventory API.
type APIServer struct {
	router   *mux.Router
	reader   cluster.Reader
	opts     Options
	registry *prometheus.Registry
	metrics  *metrics
}

func NewAPIServer(reader cluster.Reader, opts Options) *APIServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &APIServer{
		router:   mux.NewRouter(),
		reader:   reader,
		opts:     opts,
		registry: registry,
		metrics:  newMetrics(registry),
	}
	s.setupRoutes()
	return s
}

func (s *APIServer) setupRoutes() {
	s.router.Handle("/api/pods", s.metrics.instrument("pods", http.HandlerFunc(s.handlePods))).Methods(http.MethodGet)
	s.router.Handle("/api/nodes", s.metrics.instrument("nodes", http.HandlerFunc(s.handleNodes))).Methods(http.MethodGet)
	s.router.Handle("/api/namespaces", s.metrics.instrument("namespaces", http.HandlerFunc(s.handleNamespaces))).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler returns the router wrapped in request id, CORS and access log
// middleware.
func (s *APIServer) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.CustomLoggingHandler(io.Discard, h, logRequest)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)(h)
	return withRequestID(h)
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *APIServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("API server starting on %s", s.opts.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
