package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/metrics"
	"github.com/fleshka4/swap-proxy/internal/service"
)

const (
	headerRequestID = "X-Request-ID"

	defaultRequestTimeout = 15 * time.Second
	defaultGraceTimeout   = 5 * time.Second
)

// Deps are the collaborators behind the routes. Pools and News may be nil,
// in which case their routes answer 503 and an empty list respectively.
type Deps struct {
	Service service.Service
	Pools   PoolLister
	News    NewsFeed
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Server represents the HTTP transport layer.
type Server struct {
	svc     service.Service
	pools   PoolLister
	news    NewsFeed
	log     *zap.Logger
	metrics *metrics.Metrics

	router  *mux.Router
	handler http.Handler

	graceTimeout      time.Duration
	readHeaderTimeout time.Duration
	requestTimeout    time.Duration
}

// NewServer creates a new HTTP server with registered routes.
func NewServer(deps Deps, cfg config.Config) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		svc:     deps.Service,
		pools:   deps.Pools,
		news:    deps.News,
		log:     log,
		metrics: deps.Metrics,
		router:  mux.NewRouter(),

		graceTimeout:      cfg.GraceTimeout,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		requestTimeout:    cfg.RequestTimeout,
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = defaultRequestTimeout
	}
	if s.graceTimeout <= 0 {
		s.graceTimeout = defaultGraceTimeout
	}

	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/quote", s.handleQuote).Methods(http.MethodPost)
	s.router.HandleFunc("/swap", s.handleSwap).Methods(http.MethodPost)
	s.router.HandleFunc("/pools", s.handlePools).Methods(http.MethodGet)
	s.router.HandleFunc("/news", s.handleNews).Methods(http.MethodGet)
	if deps.Metrics != nil {
		s.router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	s.router.Use(s.logMiddleware)
	s.router.NotFoundHandler = s.logMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeMessage(w, http.StatusNotFound, "not found")
	}))
	s.router.MethodNotAllowedHandler = s.logMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}))

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", headerRequestID}),
		handlers.ExposedHeaders([]string{headerRequestID}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(log)),
		handlers.PrintRecoveryStack(true),
	)
	s.handler = recovery(cors(s.router))

	return s
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "srv.ListenAndServe")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.graceTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "srv.Shutdown")
	}
	s.log.Info("server stopped gracefully")
	return nil
}

// logMiddleware logs each HTTP request and the time taken to process it.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		took := time.Since(start)

		s.metrics.ObserveHTTP(route, r.Method, rec.status, took)
		s.log.Info("http request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("took", took),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
