// Package http serves the planning dashboard: server-rendered pages for
// browsing and editing the year, plus export and ops endpoints.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/csrf"

	"offerplan/internal/cache"
	"offerplan/internal/core"
	"offerplan/internal/email"
	"offerplan/internal/log"
	"offerplan/internal/metrics"
	"offerplan/internal/plan"
	appweb "offerplan/web"
)

type Server struct {
	http.Server
	templates *template.Template
	service   *plan.Service
	sender    email.Sender
	logger    *log.Logger

	rateLimiter *rateLimiter

	// Cached year rollup keyed by plan revision, so a burst of page
	// loads between edits recomputes nothing.
	summaryCache *cache.LRU[core.PlanSummary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// server. csrfKey protects every mutating form.
func NewServer(addr string, svc *plan.Service, sender email.Sender, csrfKey string, logger *log.Logger) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		service:          svc,
		sender:           sender,
		logger:           logger.WithComponent(log.ComponentHTTP),
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRU[core.PlanSummary](16, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleIndex, "index"))
	mux.HandleFunc("GET /months/{id}", s.withMiddleware(s.handleMonth, "month"))
	mux.HandleFunc("GET /overview", s.withMiddleware(s.handleOverview, "overview"))

	mux.HandleFunc("POST /months/{id}/offers", s.withMiddleware(s.handleCreateOffer, "offer_create"))
	mux.HandleFunc("POST /months/{id}/offers/{offerID}", s.withMiddleware(s.handleUpdateOffer, "offer_update"))
	mux.HandleFunc("POST /months/{id}/offers/{offerID}/toggle", s.withMiddleware(s.handleToggleOffer, "offer_toggle"))
	mux.HandleFunc("POST /months/{id}/offers/{offerID}/delete", s.withMiddleware(s.handleDeleteOffer, "offer_delete"))
	mux.HandleFunc("POST /reset", s.withMiddleware(s.handleReset, "reset"))

	mux.HandleFunc("GET /export", s.withMiddleware(s.handleExport, "export"))
	mux.HandleFunc("POST /export/email", s.withMiddleware(s.handleEmailExport, "export_email"))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	protect := csrf.Protect([]byte(csrfKey),
		csrf.Secure(false),
		csrf.Path("/"))
	s.Server = http.Server{
		Addr:    addr,
		Handler: protect(mux),
	}

	go s.startCacheCleanup()

	return s, nil
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.summaryCache.CleanExpired(); removed > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", removed)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// withMiddleware adds request tracing, security headers, rate limiting
// on mutations, and metrics to a handler.
func (s *Server) withMiddleware(next http.HandlerFunc, route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"))

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds())
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	// The service loads or seeds the plan before the server starts, so
	// reachable means ready.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// summary returns the year rollup, cached per plan revision.
func (s *Server) summary() core.PlanSummary {
	key := strconv.FormatInt(s.service.Revision(), 10)
	if data, found := s.summaryCache.Get(key); found {
		metrics.SummaryCacheHits.Inc()
		return data
	}
	metrics.SummaryCacheMisses.Inc()
	data := core.SummarizePlan(s.service.Snapshot())
	s.summaryCache.Set(key, data)
	return data
}
