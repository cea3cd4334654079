// Package cli provides the command-line interface for the roomcheck application.
package cli

import (
	"github.com/law-makers/roomcheck/internal/app"
	"github.com/spf13/cobra"
)

// The application is shared by every command of one process.
var globalApp *app.Application

// SetApp stores the Application for the running command.
func SetApp(cmd *cobra.Command, a *app.Application) {
	if cmd == nil {
		return
	}
	globalApp = a
}

// GetApp retrieves the Application initialized for the running command.
func GetApp() *app.Application {
	return globalApp
}
