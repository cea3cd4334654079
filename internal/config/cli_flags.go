package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Log in JSON format")
	pf.String("driver", DefaultDriver, "Browser driver: chrome or static")
	pf.String("base-url", DefaultBaseURL, "Booking page URL")
	pf.String("remote-url", "", "Attach to a running browser's DevTools endpoint (e.g. ws://localhost:9222)")
	pf.String("chrome-path", "", "Path to the Chrome executable")
	pf.Bool("headful", false, "Show the browser window")
	pf.String("timeout", DefaultTimeout.String(), "Hard timeout for one availability lookup")
	pf.String("user-agent", "", "Custom user agent string")
	pf.String("proxy", "", "HTTP/SOCKS5 proxy for the browser; a comma-separated list rotates per session")
	pf.Float64("rate-limit", DefaultRateLimitRPS, "Page loads per second allowed against one host")
	pf.StringArray("header", nil, "Extra request header \"Key: Value\" (repeatable)")
}
