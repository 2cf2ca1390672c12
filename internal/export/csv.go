// Package export flattens a session report into delimited text for
// downstream spreadsheet tooling.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/proctorsight/proctor-go/internal/scoring"
)

// WriteCSV writes the report's events as CSV rows: local time, human
// label, duration and confidence percentage.
func WriteCSV(w io.Writer, report *scoring.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Time", "Event Type", "Duration", "Confidence"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for i := range report.Events {
		event := &report.Events[i]
		row := []string{
			event.Timestamp.Format("15:04:05"),
			event.Kind.Label(),
			FormatDuration(event.Duration),
			fmt.Sprintf("%d%%", int(math.Round(event.Confidence*100))),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatDuration renders a duration as m:ss, or h:mm:ss once it reaches an
// hour.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// Filename suggests a download filename for the report.
func Filename(report *scoring.Report) string {
	name := strings.ToLower(strings.ReplaceAll(report.CandidateName, " ", "_"))
	return fmt.Sprintf("proctoring_report_%s.csv", name)
}
