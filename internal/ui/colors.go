// Package ui styles roomcheck's terminal output.
package ui

import "os"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Enabled turns styling on. It is off when NO_COLOR is set.
var Enabled = os.Getenv("NO_COLOR") == ""

func paint(color, s string) string {
	if !Enabled {
		return s
	}
	return color + s + ColorReset
}

// Success marks a finished action, e.g. a saved listing.
func Success(s string) string {
	return paint(ColorGreen, s)
}

// Info marks side output such as saved screenshots.
func Info(s string) string {
	return paint(ColorDim+ColorYellow, s)
}

// Warning marks a step that was skipped or degraded but did not fail the command.
func Warning(s string) string {
	return paint(ColorBold+ColorYellow, s)
}

func Error(s string) string {
	return paint(ColorRed, s)
}
