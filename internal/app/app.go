// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/law-makers/roomcheck/internal/booking"
	"github.com/law-makers/roomcheck/internal/config"
	"github.com/law-makers/roomcheck/internal/driver"
	"github.com/law-makers/roomcheck/internal/driver/chrome"
	"github.com/law-makers/roomcheck/internal/driver/static"
	"github.com/law-makers/roomcheck/internal/proxy"
	"github.com/law-makers/roomcheck/internal/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands and HTTP
// handlers. Browser sessions are not shared: every lookup opens its own
// through Opener and closes it when done.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	RateLimiter ratelimit.RateLimiter
	HTTPClient  *http.Client
	Proxies     *proxy.Pool
	Opener      driver.Opener
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the rate limiter for per-host navigation throttling
//   - Initializes the HTTP client used by the static driver
//   - Selects the session opener for the configured driver
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogger(cfg.LogLevel, cfg.JSONLog, os.Stderr)
	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	rateLimiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	proxies := proxy.NewPool(proxy.ParseList(cfg.Proxy))

	opener, err := newOpener(cfg, rateLimiter, httpClient, proxies)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("driver", cfg.Driver).
		Int("proxies", proxies.Len()).
		Msg("Session opener initialized")

	return &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: rateLimiter,
		HTTPClient:  httpClient,
		Proxies:     proxies,
		Opener:      opener,
		startTime:   time.Now(),
	}, nil
}

// SetupLogger configures the global zerolog logger and returns it. Console
// output is used unless jsonLog is set.
func SetupLogger(level string, jsonLog bool, w io.Writer) zerolog.Logger {
	logLevel := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if !jsonLog {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}

func newOpener(cfg *config.Config, limiter ratelimit.RateLimiter, client *http.Client, proxies *proxy.Pool) (driver.Opener, error) {
	switch cfg.Driver {
	case config.DriverStatic:
		if p := proxies.Next(); p != "" {
			proxyURL, err := url.Parse(p)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy %q: %w", p, err)
			}
			if t, ok := client.Transport.(*http.Transport); ok {
				t.Proxy = http.ProxyURL(proxyURL)
			}
		}
		return static.Opener(static.Options{
			HTTPClient: client,
			UserAgent:  cfg.UserAgent,
			Headers:    cfg.Headers,
			Limiter:    limiter,
		}), nil
	case config.DriverChrome, "":
		execPath := cfg.ChromePath
		if execPath == "" && cfg.RemoteURL == "" {
			execPath = chrome.FindChrome()
		}
		base := chrome.Options{
			RemoteURL:    cfg.RemoteURL,
			ExecPath:     execPath,
			Headless:     cfg.Headless,
			UserAgent:    cfg.UserAgent,
			Headers:      cfg.Headers,
			WindowWidth:  cfg.WindowWidth,
			WindowHeight: cfg.WindowHeight,
			ClickSettle:  cfg.ClickSettle,
			Limiter:      limiter,
		}
		return rotateProxies(proxies, func(ctx context.Context, proxyURL string) (driver.Browser, error) {
			opts := base
			opts.Proxy = proxyURL
			return chrome.New(ctx, opts)
		}), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

// rotateProxies hands every session the next proxy of the pool. A proxy whose
// session fails to start is put on cooldown, one that works is cleared.
func rotateProxies(proxies *proxy.Pool, start func(ctx context.Context, proxyURL string) (driver.Browser, error)) driver.Opener {
	return func(ctx context.Context) (driver.Browser, error) {
		p := proxies.Next()
		b, err := start(ctx, p)
		if err != nil {
			proxies.MarkFailed(p)
			log.Debug().Err(err).Str("proxy", p).Msg("Session failed to start")
			return nil, err
		}
		if p != "" {
			proxies.MarkHealthy(p)
		}
		return b, nil
	}
}

// OpenClient starts a browser session bound to the configured booking page.
// The caller owns the client and must Close it.
func (a *Application) OpenClient(ctx context.Context, opts ...booking.Option) (*booking.Client, error) {
	opts = append([]booking.Option{booking.WithBaseURL(a.Config.BaseURL)}, opts...)
	return booking.Open(ctx, a.Opener, opts...)
}

// ListAvailableRooms runs one lookup in its own session, bounded by the
// configured timeout.
func (a *Application) ListAvailableRooms(ctx context.Context, date time.Time, groupSize uint8, opts ...booking.Option) ([]booking.RoomAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancel()

	client, err := a.OpenClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Error closing browser session")
		}
	}()

	return client.ListAvailableRooms(ctx, date, groupSize)
}

// Close releases shared resources.
func (a *Application) Close(ctx context.Context) error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}
	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
