// Package server exposes room availability lookups over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/roomcheck/internal/booking"
	"github.com/law-makers/roomcheck/internal/reqctx"
	"github.com/rs/zerolog/log"
)

// Lister runs one availability lookup in its own browser session.
type Lister interface {
	ListAvailableRooms(ctx context.Context, date time.Time, groupSize uint8, opts ...booking.Option) ([]booking.RoomAvailability, error)
}

// WriteTimeoutMargin is added to the lookup timeout so a slow lookup can
// still write its error response.
const WriteTimeoutMargin = 15 * time.Second

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	Debug           bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 2 * time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}

// Server is the HTTP front of a Lister.
type Server struct {
	router *gin.Engine
	server *http.Server
	config Config
}

// New builds a Server with recovery and request logging middleware.
func New(cfg Config, lister Lister) *Server {
	cfg.SetDefaults()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())

	h := &handler{lister: lister, started: time.Now()}
	router.GET("/available_rooms", h.availableRooms)
	router.POST("/available_rooms", h.availableRooms)
	router.GET("/healthz", h.health)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		config: cfg,
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.server.Addr).Msg("Starting HTTP server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", s.config.ShutdownTimeout).Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info().Msg("HTTP server stopped gracefully")
	return nil
}

// RequestIDMiddleware tags each request with the caller's X-Request-ID or a
// random one and echoes it in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := reqctx.WithRequestContext(c.Request.Context(), c.GetHeader(reqctx.HeaderName))
		c.Request = c.Request.WithContext(ctx)
		c.Header(reqctx.HeaderName, reqctx.GetRequestContext(ctx).RequestID)
		c.Next()
	}
}

// LoggerMiddleware logs one line per request with zerolog.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		ev := log.Info()
		if len(c.Errors) > 0 {
			ev = log.Error().Strs("errors", c.Errors.Errors())
		}
		ev.Str("request_id", reqctx.GetRequestContext(c.Request.Context()).RequestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}
