package site

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"snapai/internal/logging"
)

// csvDateLayout matches the browser's short local date (en-US).
const csvDateLayout = "1/2/2006"

// WriteWaitlistCSV writes the waitlist snapshot as a two-column CSV document:
// one header row, one row per entry in snapshot order, dates rendered in loc.
func WriteWaitlistCSV(w io.Writer, entries []*WaitlistEntry, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Email", "Joined Date"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Email, e.JoinedAt.In(loc).Format(csvDateLayout)}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportWaitlistCSV writes the waitlist snapshot to path.
func ExportWaitlistCSV(path string, entries []*WaitlistEntry, loc *time.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := WriteWaitlistCSV(f, entries, loc); err != nil {
		return err
	}
	logging.Export("Exported %d waitlist entries to %s", len(entries), path)
	return nil
}
