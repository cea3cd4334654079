package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Booking site
	BaseURL string
	Timeout time.Duration

	// Driver selection: "chrome" or "static"
	Driver string

	// Browser session
	RemoteURL    string
	ChromePath   string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	ClickSettle  time.Duration
	UserAgent    string
	Headers      map[string]string

	// Proxy is one proxy or a comma-separated list rotated per session.
	Proxy string

	// Static driver
	HTTPTimeout time.Duration

	// Rate limiting of page loads
	RateLimitRPS   float64
	RateLimitBurst int

	// HTTP service
	ListenAddr string
}

// Defaults returns a Config populated with the default constants.
func Defaults() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		BaseURL:        DefaultBaseURL,
		Timeout:        DefaultTimeout,
		Driver:         DefaultDriver,
		Headless:       DefaultHeadless,
		WindowWidth:    DefaultWindowWidth,
		WindowHeight:   DefaultWindowHeight,
		ClickSettle:    DefaultClickSettle,
		UserAgent:      DefaultUserAgent,
		HTTPTimeout:    DefaultHTTPTimeout,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		ListenAddr:     DefaultListenAddr,
	}
}

// Load builds a Config by combining defaults, environment variables, and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Defaults()

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if cmd != nil {
		if err := applyFlags(cfg, cmd); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("ROOMCHECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("ROOMCHECK_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := getenv("ROOMCHECK_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := getenv("ROOMCHECK_REMOTE_URL"); v != "" {
		cfg.RemoteURL = v
	}
	if v := getenv("ROOMCHECK_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := getenv("ROOMCHECK_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv("ROOMCHECK_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := getenv("ROOMCHECK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("ROOMCHECK_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ROOMCHECK_HEADLESS: %w", err)
		}
		cfg.Headless = b
	}
	if v := getenv("ROOMCHECK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ROOMCHECK_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := getenv("ROOMCHECK_RATE_LIMIT"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ROOMCHECK_RATE_LIMIT: %w", err)
		}
		cfg.RateLimitRPS = rps
	}
	return nil
}

func applyFlags(cfg *Config, cmd *cobra.Command) error {
	flags := cmd.Flags()

	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str("base-url", &cfg.BaseURL)
	str("driver", &cfg.Driver)
	str("remote-url", &cfg.RemoteURL)
	str("chrome-path", &cfg.ChromePath)
	str("user-agent", &cfg.UserAgent)
	str("proxy", &cfg.Proxy)

	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		d, err := time.ParseDuration(f.Value.String())
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if f := flags.Lookup("rate-limit"); f != nil && f.Changed {
		rps, err := strconv.ParseFloat(f.Value.String(), 64)
		if err != nil {
			return fmt.Errorf("--rate-limit: %w", err)
		}
		cfg.RateLimitRPS = rps
	}
	if f := flags.Lookup("headful"); f != nil && f.Value.String() == "true" {
		cfg.Headless = false
	}
	if f := flags.Lookup("json"); f != nil && f.Value.String() == "true" {
		cfg.JSONLog = true
	}
	if f := flags.Lookup("quiet"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "error"
	}
	if f := flags.Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
	if hs, err := flags.GetStringArray("header"); err == nil && len(hs) > 0 {
		cfg.Headers = ParseHeaders(hs)
	}
	return nil
}
