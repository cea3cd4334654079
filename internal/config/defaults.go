package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"
	DefaultDriver         = DriverChrome
	DefaultBaseURL        = "https://calgarylibrary.ca/events-and-programs/book-a-space/book-a-room"
	DefaultTimeout        = 90 * time.Second
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultHeadless       = true
	DefaultWindowWidth    = 1920
	DefaultWindowHeight   = 1080
	DefaultClickSettle    = 500 * time.Millisecond
	DefaultRateLimitRPS   = 1.0
	DefaultRateLimitBurst = 2
	DefaultListenAddr     = ":3000"
	DefaultGroupSize      = 10
	DefaultDaysAhead      = 7
)

// Supported drivers
const (
	DriverChrome = "chrome"
	DriverStatic = "static"
)
