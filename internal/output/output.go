// Package output renders room availability listings as a table, JSON or CSV.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/law-makers/roomcheck/internal/booking"
)

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat accepts table, json or csv, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q (must be table, json, or csv)", s)
}

// FormatFromPath infers the format from a file extension, falling back to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".txt":
		return FormatTable
	default:
		return FormatJSON
	}
}

// Write renders results to w in the given format.
func Write(w io.Writer, format Format, results []booking.RoomAvailability) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatTable, "":
		return WriteTable(w, results)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Save writes results to path, creating or truncating it.
func Save(path string, format Format, results []booking.RoomAvailability) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, format, results); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteJSON writes the listing as an indented JSON array.
func WriteJSON(w io.Writer, results []booking.RoomAvailability) error {
	if results == nil {
		results = []booking.RoomAvailability{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// WriteCSV writes one row per room. Slots are joined with "; ".
func WriteCSV(w io.Writer, results []booking.RoomAvailability) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Choice", "Title", "Capacity", "Availability", "Description"}); err != nil {
		return err
	}
	for _, ra := range results {
		row := []string{
			ra.Room.Choice.String(),
			ra.Room.Title,
			capacity(ra),
			strings.Join(ra.Availability.Labels(), "; "),
			ra.Room.Description,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable writes an aligned, human-readable listing.
func WriteTable(w io.Writer, results []booking.RoomAvailability) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tCAPACITY\tAVAILABILITY")
	for _, ra := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ra.Room.Title, capacity(ra), ra.Availability)
	}
	return tw.Flush()
}

func capacity(ra booking.RoomAvailability) string {
	if c, ok := ra.Room.Capacity(); ok {
		return strconv.Itoa(c)
	}
	return "-"
}
