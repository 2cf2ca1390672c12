package report

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/datastore"
	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/export"
	"github.com/proctorsight/proctor-go/internal/scoring"
)

// Command creates the report command, which prints the aggregated
// integrity report of one session.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [session-id]",
		Short: "Show the integrity report for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), settings, args[0])
		},
	}

	return cmd
}

func runReport(ctx context.Context, settings *conf.Settings, sessionID string) error {
	store := datastore.New(settings)
	if store == nil {
		return errors.Newf("no output database enabled").
			Component("report").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	report, err := scoring.NewGenerator(store).Report(ctx, sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("Candidate:       %s\n", report.CandidateName)
	fmt.Printf("Duration:        %s\n", formatSeconds(report.InterviewDuration))
	fmt.Printf("Focus score:     %d\n", report.FocusScore)
	fmt.Printf("Integrity score: %d\n", report.IntegrityScore)
	fmt.Printf("Events:          %d\n", len(report.Events))

	for i := range report.Events {
		event := &report.Events[i]
		fmt.Printf("  %s  %-25s %s  -%d\n",
			event.Timestamp.Format("15:04:05"),
			event.Kind.Label(),
			export.FormatDuration(event.Duration),
			scoring.Deduction(event.Kind))
	}
	return nil
}

func formatSeconds(seconds int) string {
	if seconds == 0 {
		return "ongoing"
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
