package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"ethiopicker/internal/config"
	appLog "ethiopicker/internal/log"
	"ethiopicker/internal/metrics"
)

// Server mounts selector widgets and exposes them over HTTP: a JSON API for
// each control, a server-rendered page per widget and /metrics.
type Server struct {
	cfg      *config.Config
	loc      *time.Location
	mux      *http.ServeMux
	metrics  *metrics.Metrics
	validate *validator.Validate
	now      func() time.Time

	// widgets are the mounted selectors by id. Selector state is not safe
	// for concurrent use, so every access happens under mu.
	mu      sync.Mutex
	widgets map[string]*widget
}

// Option customizes a Server.
type Option func(*Server)

// WithClock overrides the time source used to seed widgets.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithMetrics uses m instead of a fresh registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		loc:      cfg.Location(),
		mux:      http.NewServeMux(),
		validate: validator.New(),
		widgets:  make(map[string]*widget),
	}
	s.now = func() time.Time { return time.Now().In(s.loc) }
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	return s.metrics.Middleware(h)
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials disable auth.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="ethiopicker", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.Config) error {
	s := NewServer(cfg)
	sweeper, err := s.startSweeper()
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	s.mux.HandleFunc("GET /api/convert", s.handleConvert)
	s.mux.HandleFunc("POST /api/submit", s.handleSubmitValue)

	s.mux.HandleFunc("POST /api/widgets", s.handleMount)
	s.mux.HandleFunc("GET /api/widgets/{id}", s.handleState)
	s.mux.HandleFunc("DELETE /api/widgets/{id}", s.handleUnmount)
	s.mux.HandleFunc("POST /api/widgets/{id}/date", s.handleDate)
	s.mux.HandleFunc("POST /api/widgets/{id}/day", s.handleDay)
	s.mux.HandleFunc("POST /api/widgets/{id}/year", s.handleYear)
	s.mux.HandleFunc("POST /api/widgets/{id}/month", s.handleMonth)
	s.mux.HandleFunc("POST /api/widgets/{id}/time", s.handleTime)
	s.mux.HandleFunc("POST /api/widgets/{id}/mode", s.handleMode)
	s.mux.HandleFunc("POST /api/widgets/{id}/popover", s.handlePopover)
	s.mux.HandleFunc("POST /api/widgets/{id}/import", s.handleImport)
	s.mux.HandleFunc("GET /api/widgets/{id}/event.ics", s.handleExport)
	s.mux.HandleFunc("POST /api/widgets/{id}/submit", s.handleSubmit)

	s.mux.HandleFunc("GET /widgets/{id}", s.handlePage)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// decodeJSON reads a JSON body into v and runs struct validation.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return s.validate.Struct(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
