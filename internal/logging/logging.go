package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var structuredLogger *slog.Logger
var humanReadableLogger *slog.Logger

// Init initializes the logging system with structured and human-readable
// loggers. JSON output goes to stdout for log collectors, text output to
// stderr for operators watching a terminal.
func Init(level slog.Level) {
	structuredLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	humanReadableLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(structuredLogger)
}

// SetOutput redirects logger output, used by tests to capture log lines.
func SetOutput(structuredOutput, humanReadableOutput io.Writer) {
	structuredLogger = slog.New(slog.NewJSONHandler(structuredOutput, nil))
	humanReadableLogger = slog.New(slog.NewTextHandler(humanReadableOutput, nil))
	slog.SetDefault(structuredLogger)
}

// Structured returns the globally configured structured (JSON) logger.
// Returns nil if Init() has not been called.
func Structured() *slog.Logger {
	return structuredLogger
}

// HumanReadable returns the globally configured human-readable logger.
// Returns nil if Init() has not been called.
func HumanReadable() *slog.Logger {
	return humanReadableLogger
}

// ForService creates a new logger instance with the 'service' attribute
// added, using the global structured logger as the base. Falls back to the
// default slog logger when Init() has not been called, so packages can log
// safely during early startup and in tests.
func ForService(serviceName string) *slog.Logger {
	base := structuredLogger
	if base == nil {
		base = slog.Default()
	}
	return base.With("service", serviceName)
}

// FileRotation controls rotation of file-based logs.
type FileRotation struct {
	MaxSizeMB  int // rotate when the file exceeds this size
	MaxBackups int // number of rotated files to keep
	MaxAgeDays int // days to retain rotated files
}

// DefaultFileRotation returns the rotation settings used when the
// configuration does not override them.
func DefaultFileRotation() FileRotation {
	return FileRotation{MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28}
}

// NewFileLogger creates a slog.Logger writing JSON logs to the given file
// path with lumberjack rotation. It includes a 'service' attribute in all
// records. Returns the logger, a function to close the underlying writer,
// and an error if setup fails.
func NewFileLogger(filePath, serviceName string, level slog.Level, rotation FileRotation) (*slog.Logger, func() error, error) {
	// lumberjack does not create directories
	logDir := filepath.Dir(filePath)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
	}

	fileHandler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level})
	logger := slog.New(fileHandler).With("service", serviceName)

	return logger, logWriter.Close, nil
}
