package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(c *Config) error {
	if err := validateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	if c.Driver != DriverChrome && c.Driver != DriverStatic {
		return fmt.Errorf("driver must be %q or %q, got %q", DriverChrome, DriverStatic, c.Driver)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be > 0")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	if c.RemoteURL != "" {
		u, err := url.Parse(c.RemoteURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("remote url %q is not a valid DevTools endpoint", c.RemoteURL)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// validateURL requires an absolute http(s) URL.
func validateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

// ParseHeaders converts "Key: Value" strings into a map. Malformed entries
// are skipped.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return m
}
