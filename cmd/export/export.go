package export

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/datastore"
	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/export"
	"github.com/proctorsight/proctor-go/internal/scoring"
)

// Command creates the export command, which writes a session's events as
// CSV.
func Command(settings *conf.Settings) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [session-id]",
		Short: "Export a session's events as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), settings, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default derived from candidate name)")

	return cmd
}

func runExport(ctx context.Context, settings *conf.Settings, sessionID, output string) error {
	store := datastore.New(settings)
	if store == nil {
		return errors.Newf("no output database enabled").
			Component("export").
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

	if output == "" {
		output = export.Filename(report)
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("path", output).
			Build()
	}
	defer f.Close()

	if err := export.WriteCSV(f, report); err != nil {
		return err
	}

	fmt.Printf("Wrote %d events to %s\n", len(report.Events), output)
	return nil
}
