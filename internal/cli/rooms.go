package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/law-makers/roomcheck/internal/booking"
	"github.com/law-makers/roomcheck/internal/config"
	"github.com/law-makers/roomcheck/internal/driver/chrome"
	"github.com/law-makers/roomcheck/internal/output"
	"github.com/law-makers/roomcheck/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	roomsDate       string
	roomsGroupSize  uint8
	roomsFormat     string
	roomsOutput     string
	roomsScreenshot string
)

// roomsCmd represents the rooms command
var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List meeting rooms and their open time slots",
	Long: `Opens the booking page for the given day and group size, expands every
room card and prints each room with its open half-hour slots.

Without --date the lookup is for one week from today.`,
	Example: `  # Rooms for a group of 10, one week from today
  roomcheck rooms

  # A specific day and group size, as JSON
  roomcheck rooms --date 2026-11-02 --group-size 4 --format json

  # Save as CSV without launching Chrome
  roomcheck rooms --driver static --output rooms.csv

  # Attach to a running browser and keep a screenshot
  roomcheck rooms --remote-url ws://127.0.0.1:9222 --screenshot page.png`,
	Args: cobra.NoArgs,
	RunE: runRooms,
}

func init() {
	rootCmd.AddCommand(roomsCmd)

	roomsCmd.Flags().StringVarP(&roomsDate, "date", "d", "", "Day to check (YYYY-MM-DD, default: one week from today)")
	roomsCmd.Flags().Uint8VarP(&roomsGroupSize, "group-size", "g", config.DefaultGroupSize, "Number of people (0-255)")
	roomsCmd.Flags().StringVarP(&roomsFormat, "format", "f", string(output.FormatTable), "Output format: table, json, or csv")
	roomsCmd.Flags().StringVarP(&roomsOutput, "output", "o", "", "File path to save output (format inferred from .json, .csv, .txt)")
	roomsCmd.Flags().StringVar(&roomsScreenshot, "screenshot", "", "Save a full-page PNG after extraction (chrome driver only)")
}

func runRooms(cmd *cobra.Command, args []string) error {
	a := GetApp()
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	date, err := parseDate(roomsDate, time.Now())
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(roomsFormat)
	if err != nil {
		return err
	}
	if roomsOutput != "" && !cmd.Flags().Changed("format") {
		format = output.FormatFromPath(roomsOutput)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Checking rooms"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(a.Config.LogLevel != "error" && !a.Config.JSONLog),
	)
	observe := booking.WithObserver(func(card int, ra booking.RoomAvailability) {
		bar.Describe(ra.Room.Title)
		_ = bar.Add(1)
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.Timeout)
	defer cancel()

	client, err := a.OpenClient(ctx, observe)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Error closing browser session")
		}
	}()

	results, err := client.ListAvailableRooms(ctx, date, roomsGroupSize)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	if roomsScreenshot != "" {
		saveScreenshot(ctx, cmd, client, roomsScreenshot)
	}

	if roomsOutput != "" {
		if err := output.Save(roomsOutput, format, results); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.Info().Str("file", roomsOutput).Msg("Output saved")
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("✓ Saved to "+roomsOutput))
		return nil
	}
	return output.Write(cmd.OutOrStdout(), format, results)
}

// parseDate reads a YYYY-MM-DD day in local time; empty means a week after now.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.AddDate(0, 0, config.DefaultDaysAhead), nil
	}
	date, err := time.ParseInLocation(booking.DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: must be YYYY-MM-DD", s)
	}
	return date, nil
}

func saveScreenshot(ctx context.Context, cmd *cobra.Command, client *booking.Client, path string) {
	browser, ok := client.Browser.(*chrome.Browser)
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning("Screenshots need the chrome driver, skipping "+path))
		return
	}
	png, err := browser.Screenshot(ctx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning("Failed to capture screenshot: "+err.Error()))
		return
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning("Failed to save screenshot: "+err.Error()))
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Info("Screenshot saved to "+path))
}
