package analyze

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/proctorsight/proctor-go/internal/analysis"
	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/datastore"
	"github.com/proctorsight/proctor-go/internal/errors"
)

// Command creates the analyze command for offline audio analysis of a
// recorded interview.
func Command(settings *conf.Settings) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "analyze [input.wav]",
		Short: "Analyze a recorded interview audio file",
		Long:  "Run the background noise detector over a WAV recording. With --session the resulting events are appended to that session, otherwise they are printed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), settings, args[0], sessionID)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID to append detected events to")

	return cmd
}

func runAnalyze(ctx context.Context, settings *conf.Settings, path, sessionID string) error {
	analyzer := analysis.NewAnalyzer(settings.Monitor.NoiseRMSThreshold, settings.Monitor.Interval)

	if sessionID == "" {
		result, err := analyzer.AnalyzeFile(ctx, path, time.Now())
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	}

	store := datastore.New(settings)
	if store == nil {
		return errors.Newf("no output database enabled").
			Component("analyze").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	session, err := store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	result, err := analyzer.AnalyzeToSession(ctx, store, session.ID, path, session.StartTime)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func printResult(result *analysis.Result) {
	fmt.Printf("Analyzed %s of audio in %d windows\n", result.Duration, result.Windows)
	for i := range result.Events {
		event := &result.Events[i]
		fmt.Printf("%s  %s (confidence %.2f)\n",
			event.Timestamp.Format("15:04:05"), event.Kind.Label(), event.Confidence)
	}
	if len(result.Events) == 0 {
		fmt.Println("No background noise detected")
	}
}
