package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/proctorsight/proctor-go/cmd"
	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := conf.Load()
	if err != nil {
		return errors.New(err).
			Component("main").
			Category(errors.CategoryConfiguration).
			Build()
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(level)

	if settings.Main.Log.Enabled {
		rotation := logging.FileRotation{
			MaxSizeMB:  settings.Main.Log.MaxSizeMB,
			MaxBackups: settings.Main.Log.MaxBackups,
			MaxAgeDays: settings.Main.Log.MaxAgeDays,
		}
		fileLogger, closeLog, err := logging.NewFileLogger(settings.Main.Log.Path, settings.Main.Name, level, rotation)
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()
		slog.SetDefault(fileLogger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings)
	return rootCmd.ExecuteContext(ctx)
}
