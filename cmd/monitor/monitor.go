package monitor

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/datastore"
	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/feed"
	"github.com/proctorsight/proctor-go/internal/logging"
	"github.com/proctorsight/proctor-go/internal/monitor"
	"github.com/proctorsight/proctor-go/internal/telemetry"
)

// Command creates the monitor command, which runs a full proctoring
// session against an observation feed.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		candidate string
		feedPath  string
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run a live proctoring session",
		Long:  "Start a session for a candidate and run the detection pipeline over an observation feed until the feed ends or the process is interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd.Context(), settings, candidate, feedPath)
		},
	}

	cmd.Flags().StringVarP(&candidate, "candidate", "c", "", "Candidate name for the session")
	cmd.Flags().StringVar(&feedPath, "feed", "", "Path to the NDJSON observation feed")
	cmd.Flags().DurationVar(&settings.Monitor.Interval, "interval", viper.GetDuration("monitor.interval"), "Sampling cadence between detection ticks")
	cmd.Flags().BoolVar(&settings.Monitor.ProcessingTimeLogs, "processingtime", viper.GetBool("monitor.processingtimelogs"), "Log processing time for each tick")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")

	_ = cmd.MarkFlagRequired("candidate")
	_ = cmd.MarkFlagRequired("feed")

	return cmd
}

func runMonitor(ctx context.Context, settings *conf.Settings, candidate, feedPath string) error {
	logger := logging.ForService("monitor")

	store := datastore.New(settings)
	if store == nil {
		return errors.Newf("no output database enabled").
			Component("monitor").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	reader, err := feed.Open(feedPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	var metrics *telemetry.Metrics
	if settings.Telemetry.Enabled {
		metrics = telemetry.NewMetrics()
		server := telemetry.NewServer(settings.Telemetry.Listen, metrics, logger)
		server.Start()
		defer func() { _ = server.Shutdown(context.Background()) }()
	}

	session, err := store.CreateSession(ctx, candidate)
	if err != nil {
		return err
	}
	logger.Info("session started",
		"session_id", session.ID,
		"candidate", session.CandidateName)

	cycle := monitor.NewDetectionCycle(&settings.Monitor, reader, reader,
		monitor.WithLogger(logger),
		monitor.WithMetrics(metrics))
	sink := monitor.NewAsyncSink(store, session.ID, settings.Monitor.SinkQueueSize, logger, metrics)

	if err := monitor.RunSession(ctx, cycle, reader, sink); err != nil {
		return err
	}

	session, err = store.EndSession(context.Background(), session.ID)
	if err != nil {
		return err
	}
	logger.Info("session ended",
		"session_id", session.ID,
		"duration_s", session.Duration)

	fmt.Printf("Session %s ended after %ds\n", session.ID, session.Duration)
	return nil
}
