// Package server provides the HTTP API for the career counselor.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-counselor/internal/aggregate"
	"github.com/jonathan/career-counselor/internal/chat"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/gateway"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/jonathan/career-counselor/internal/llm"
	"github.com/jonathan/career-counselor/internal/logger"
	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/server/middleware"
	"github.com/jonathan/career-counselor/internal/server/ratelimit"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/store/drivers"
	"github.com/jonathan/career-counselor/internal/voice"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	source      config.Source
	gateway     *gateway.Gateway
	reader      *aggregate.Reader
	counselor   *chat.Counselor
	voice       voice.EngineFactory
	rateLimiter *ratelimit.Limiter
	validator   *validator.Validate
	log         *logger.Logger
	metrics     *observability.Metrics
}

// Config holds server configuration. Only Port is required; every other
// field has a production default.
type Config struct {
	Port int

	// Source yields the configuration for each request. Defaults to the environment.
	Source config.Source
	// Identity resolves bearer tokens. Defaults to the provider selected by Source.
	Identity identity.Provider
	// Dialer opens store sessions. Defaults to the STORE_DRIVER selected driver.
	Dialer store.Dialer
	// LLM creates generative chat clients.
	LLM llm.Factory
	// Voice creates speech engines.
	Voice voice.EngineFactory
	// RateLimit overrides the RATE_LIMIT_* environment.
	RateLimit *ratelimit.Config

	Logger  *logger.Logger
	Metrics *observability.Metrics
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Source == nil {
		cfg.Source = config.FromEnv()
	}
	if cfg.Identity == nil {
		cfg.Identity = identity.Dynamic{Source: cfg.Source, Client: &http.Client{Timeout: 10 * time.Second}}
	}
	if cfg.Dialer == nil {
		cfg.Dialer = drivers.Dialer{}
	}
	if cfg.LLM == nil {
		cfg.LLM = llm.NewClient
	}
	if cfg.Voice == nil {
		cfg.Voice = voice.GoogleFactory
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewMetrics()
	}
	if cfg.RateLimit == nil {
		rl, err := ratelimit.LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg.RateLimit = rl
	}

	s := &Server{
		source:      cfg.Source,
		voice:       cfg.Voice,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validator:   newValidator(),
		log:         cfg.Logger,
		metrics:     cfg.Metrics,
	}
	s.gateway = gateway.New(cfg.Source, cfg.Dialer, gateway.WithLogger(cfg.Logger), gateway.WithMetrics(cfg.Metrics))
	s.reader = aggregate.NewReader(cfg.Source, cfg.Dialer, cfg.Logger, cfg.Metrics)
	s.counselor = chat.NewCounselor(cfg.Source,
		chat.WithClientFactory(cfg.LLM),
		chat.WithVoice(cfg.Voice),
		chat.WithLogger(cfg.Logger),
		chat.WithMetrics(cfg.Metrics),
	)

	auth := middleware.Auth(cfg.Identity)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", cfg.Metrics.Handler())

	// Catalog endpoints
	mux.HandleFunc("GET /questions", s.handleQuestions)
	mux.HandleFunc("GET /learning-resources", s.handleLearningResources)
	mux.HandleFunc("POST /recommend", s.handleRecommend)

	// Counselor endpoints
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.Handle("POST /voice/transcribe", auth(http.HandlerFunc(s.handleTranscribe)))

	// Persistence endpoints
	mux.Handle("POST /save-assessment", auth(http.HandlerFunc(s.handleSaveAssessment)))
	mux.Handle("POST /save-chat-session", auth(http.HandlerFunc(s.handleSaveChatSession)))
	mux.Handle("POST /track-learning-progress", auth(http.HandlerFunc(s.handleTrackLearningProgress)))
	mux.Handle("POST /get-user-data", auth(http.HandlerFunc(s.handleGetUserData)))

	s.handler = s.withRateLimit(s.withLogging(s.withMetrics(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.log.Info("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers and answers preflight requests
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// withMetrics records request counts and latency by route pattern.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.ObserveRequest(r.Method, routeLabel(r), rec.status, time.Since(start))
	})
}

// routeLabel returns the matched mux pattern without its method, so metric
// cardinality is bounded by the route table.
func routeLabel(r *http.Request) string {
	if r.Method == http.MethodOptions {
		return "preflight"
	}
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to encode JSON response", "err", err)
	}
}

// errorResponse writes the failure body for err with the status HTTPStatus maps it to.
func (s *Server) errorResponse(w http.ResponseWriter, err error, fallback string) {
	s.jsonResponse(w, HTTPStatus(err), bodyFor(err, fallback))
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validator.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded", "client", clientID, "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
