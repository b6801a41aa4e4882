// Package httpapi exposes normalization and fuzzy matching over a fasthttp JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/config"
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/ports"
	"github.com/baditaflorin/go_nlpurify/pkg/fuzzy"
	"github.com/baditaflorin/go_nlpurify/pkg/normalize"
	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"
)

// Server holds the shared normalizer and matcher defaults behind the handlers.
type Server struct {
	config     config.Config
	logger     ports.Logger
	raw        l.Logger
	normalizer *normalize.Normalizer
	matcher    *fuzzy.Matcher
	started    time.Time
}

// New builds a Server from a validated configuration.
func New(cfg config.Config, lg l.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var log ports.Logger = logger.NewNopLogger()
	if lg != nil {
		log = logger.FromExisting(lg)
	}

	normOpts := []normalize.Option{normalize.WithConfig(cfg.Normalize)}
	if lg != nil {
		normOpts = append(normOpts, normalize.WithLogger(lg))
	}
	n, err := normalize.New(normOpts...)
	if err != nil {
		return nil, err
	}

	s := &Server{config: cfg, logger: log, raw: lg, normalizer: n, started: time.Now()}
	s.matcher, err = s.newMatcher(cfg.Matcher.Metric, cfg.Matcher.Threshold, cfg.Matcher.NormalizeFirst)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) newMatcher(metric domain.Metric, threshold float64, normalizeFirst bool) (*fuzzy.Matcher, error) {
	opts := []fuzzy.Option{
		fuzzy.WithMetric(metric),
		fuzzy.WithThreshold(threshold),
		fuzzy.WithParallelism(s.config.Matcher.Parallelism),
	}
	if normalizeFirst {
		opts = append(opts, fuzzy.WithNormalization(s.config.Normalize))
	}
	if s.raw != nil {
		opts = append(opts, fuzzy.WithLogger(s.raw))
	}
	return fuzzy.NewMatcher(opts...)
}

// WarmUp primes the default normalizer and matcher.
func (s *Server) WarmUp(ctx context.Context) {
	s.normalizer.WarmUp(ctx)
	s.matcher.WarmUp(ctx)
}

// HTTPServer wraps the handler in a fasthttp.Server configured from the [server] section.
func (s *Server) HTTPServer() *fasthttp.Server {
	return &fasthttp.Server{
		Handler:               s.Handle,
		Name:                  "nlpurify",
		ReadTimeout:           time.Duration(s.config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:          time.Duration(s.config.Server.WriteTimeoutSeconds) * time.Second,
		MaxRequestBodySize:    s.config.Server.MaxBodyBytes,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := s.HTTPServer()
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "address", s.config.Server.Addr)
		errc <- srv.ListenAndServe(s.config.Server.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			s.logger.Error("Error during server shutdown", "error", err)
			return err
		}
		return nil
	}
}

// Handle routes a request by path.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	ctx.Response.Header.SetContentType("application/json")

	switch string(ctx.Path()) {
	case "/health":
		s.handleHealth(ctx)
	case "/normalize":
		postOnly(ctx, s.handleNormalize)
	case "/score":
		postOnly(ctx, s.handleScore)
	case "/classify":
		postOnly(ctx, s.handleClassify)
	case "/evaluate":
		postOnly(ctx, s.handleEvaluate)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	s.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"duration", time.Since(startTime),
	)
}

func postOnly(ctx *fasthttp.RequestCtx, next func(*fasthttp.RequestCtx)) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}
	next(ctx)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSONResponse(ctx, fasthttp.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"time":   time.Now().Format(time.RFC3339),
	})
}

// decode parses the request body into v and writes a 400 on failure.
func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// writeError maps library errors onto status codes.
func (s *Server) writeError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, domain.ErrConfig), errors.Is(err, domain.ErrEncoding):
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
	default:
		s.logger.Error("Request failed", "error", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
	writeJSONError(ctx, err.Error())
}

func writeJSONResponse(ctx *fasthttp.RequestCtx, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		writeJSONError(ctx, "Internal server error")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	body, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetBody(body)
}
