package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/roomcheck/internal/booking"
	"github.com/law-makers/roomcheck/internal/booking/bookingtest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so commands can be executed
// repeatedly within one test binary.
func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Value.Type() == "stringArray" {
					return
				}
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd, roomsCmd, serveCmd, slotsCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRooms_JSON(t *testing.T) {
	site := bookingtest.NewServer(t, bookingtest.Page)

	stdout, _, err := execute(t, "rooms", "--quiet", "--driver", "static", "--base-url", site.URL,
		"--date", "2026-11-02", "--group-size", "3", "--format", "json")
	if err != nil {
		t.Fatalf("rooms failed: %v", err)
	}

	var got []booking.RoomAvailability
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, stdout)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 rooms, got %d", len(got))
	}
	if got[0].Room.Title != "3-10A Meeting Room" || got[0].Availability.String() != "[1:00 PM, 1:30 PM]" {
		t.Errorf("Unexpected first room %+v", got[0])
	}

	queries := site.Queries()
	if len(queries) != 1 || queries[0] != "date=2026-11-02&location=1&groupsize=3" {
		t.Errorf("Unexpected queries %v", queries)
	}
}

func TestRooms_Table(t *testing.T) {
	site := bookingtest.NewServer(t, bookingtest.Page)

	stdout, _, err := execute(t, "rooms", "--quiet", "--driver", "static", "--base-url", site.URL)
	if err != nil {
		t.Fatalf("rooms failed: %v", err)
	}
	if !strings.Contains(stdout, "3-10A Meeting Room") || !strings.Contains(stdout, "Fully booked") {
		t.Errorf("Unexpected table output:\n%s", stdout)
	}

	want := "date=" + time.Now().AddDate(0, 0, 7).Format(booking.DateLayout) + "&location=1&groupsize=10"
	if queries := site.Queries(); len(queries) != 1 || queries[0] != want {
		t.Errorf("Expected default query %s, got %v", want, queries)
	}
}

func TestRooms_ScreenshotNeedsChrome(t *testing.T) {
	site := bookingtest.NewServer(t, bookingtest.Page)
	path := filepath.Join(t.TempDir(), "page.png")

	stdout, stderr, err := execute(t, "rooms", "--quiet", "--driver", "static", "--base-url", site.URL,
		"--format", "json", "--screenshot", path)
	if err != nil {
		t.Fatalf("rooms failed: %v", err)
	}
	if !strings.Contains(stderr, "Screenshots need the chrome driver") {
		t.Errorf("Expected a skip warning, got stderr %q", stderr)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no screenshot file, stat returned %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(stdout), "[") {
		t.Errorf("Listing should still be printed, got %q", stdout)
	}
}

func TestRooms_OutputFile(t *testing.T) {
	site := bookingtest.NewServer(t, bookingtest.Page)
	path := filepath.Join(t.TempDir(), "rooms.csv")

	_, _, err := execute(t, "rooms", "--quiet", "--driver", "static", "--base-url", site.URL, "--output", path)
	if err != nil {
		t.Fatalf("rooms failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if !strings.HasPrefix(string(data), "Choice,Title,Capacity") {
		t.Errorf("Expected CSV inferred from extension, got %q", data)
	}
}

func TestRooms_Failures(t *testing.T) {
	noButton := strings.Replace(bookingtest.Page, "<form>", "<form hidden>", 1)
	noToggle := strings.ReplaceAll(bookingtest.Page, `class="availability"`, `class="details"`)

	tests := []struct {
		name string
		page string
		args []string
		code int
	}{
		{"bad date", bookingtest.Page, []string{"--date", "02/11/2026"}, ExitFailure},
		{"bad format", bookingtest.Page, []string{"--format", "xml"}, ExitFailure},
		{"no search button", noButton, nil, ExitSearchButton},
		{"no availability toggle", noToggle, nil, ExitQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := bookingtest.NewServer(t, tt.page)
			args := append([]string{"rooms", "--quiet", "--driver", "static", "--base-url", site.URL}, tt.args...)

			_, _, err := execute(t, args...)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if code := ExitCode(err); code != tt.code {
				t.Errorf("ExitCode = %d, want %d (err: %v)", code, tt.code, err)
			}
		})
	}
}

func TestRooms_SiteUnreachable(t *testing.T) {
	site := bookingtest.NewServer(t, bookingtest.Page)
	site.Close()

	_, _, err := execute(t, "rooms", "--quiet", "--driver", "static", "--base-url", site.URL)
	if code := ExitCode(err); code != ExitNavigate {
		t.Errorf("ExitCode = %d, want %d (err: %v)", code, ExitNavigate, err)
	}
}

func TestSlots(t *testing.T) {
	stdout, _, err := execute(t, "slots", "--quiet")
	if err != nil {
		t.Fatalf("slots failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 49 {
		t.Fatalf("Expected header + 48 slots, got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[1], "5:00 AM") || !strings.HasSuffix(lines[48], "4:30 AM") {
		t.Errorf("Unexpected grid bounds %q .. %q", lines[1], lines[48])
	}
}

func TestHelp(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, want := range []string{"ROOMCHECK", "rooms", "serve", "slots", "--driver"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Help output missing %q", want)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitFailure},
		{&booking.Error{Kind: booking.KindSession, Card: -1, Err: errors.New("x")}, ExitSession},
		{&booking.Error{Kind: booking.KindNavigate, Card: -1, Err: errors.New("x")}, ExitNavigate},
		{&booking.Error{Kind: booking.KindSearchButton, Card: -1, Err: booking.ErrNoButtonFound}, ExitSearchButton},
		{&booking.Error{Kind: booking.KindQuery, Card: 0, Err: errors.New("x")}, ExitQuery},
		{&booking.Error{Kind: booking.KindClick, Card: 0, Err: errors.New("x")}, ExitClick},
		{&booking.Error{Kind: booking.KindText, Card: 0, Err: errors.New("x")}, ExitText},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, time.October, 16, 15, 4, 0, 0, time.UTC)

	got, err := parseDate("", now)
	if err != nil || got.Format(booking.DateLayout) != "2026-10-23" {
		t.Errorf("parseDate(\"\") = %v, %v", got, err)
	}
	got, err = parseDate("2027-01-05", now)
	if err != nil || got.Format(booking.DateLayout) != "2027-01-05" {
		t.Errorf("parseDate(2027-01-05) = %v, %v", got, err)
	}
	if _, err := parseDate("tomorrow", now); err == nil {
		t.Error("Expected error for invalid date")
	}
}
