package cli

import (
	"fmt"

	"github.com/law-makers/roomcheck/internal/server"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve room availability over HTTP",
	Long: `Starts an HTTP service answering GET or POST /available_rooms with
{"date": "YYYY-MM-DD", "group_size": N} as JSON or query parameters.
Every request runs in its own browser session.`,
	Example: `  roomcheck serve --listen :3000
  curl 'http://localhost:3000/available_rooms?date=2026-11-02&group_size=6'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		addr := a.Config.ListenAddr
		if cmd.Flags().Changed("listen") {
			addr = listenAddr
		}

		srv := server.New(server.Config{
			Addr:         addr,
			Debug:        a.Config.LogLevel == "debug",
			WriteTimeout: a.Config.Timeout + server.WriteTimeoutMargin,
		}, a)
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":3000", "Address to listen on")
}
