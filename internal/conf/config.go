// config.go: configuration for the proctor application. Defines the
// settings struct and functions to load and validate settings.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// MonitorSettings contains all settings for the detection pipeline.
type MonitorSettings struct {
	Interval           time.Duration // sampling cadence between detection ticks
	NoFaceThreshold    time.Duration // sustained absence before a no_face event
	GazeThreshold      time.Duration // sustained deviation before a looking_away event
	GazeCenterRatio    float64       // center band as fraction of frame dimension
	ObjectScoreMin     float64       // minimum classifier score for object events
	NoiseRMSThreshold  float64       // RMS level above which background noise fires
	TrackerConfidence  float64       // fixed confidence for debounced/stateless face events
	SinkQueueSize      int           // buffered events between detection and persistence
	ProcessingTimeLogs bool          // true to log per-tick processing time
}

// SQLiteSettings contains settings for the SQLite output database.
type SQLiteSettings struct {
	Enabled bool
	Path    string // path to the database file
}

// MySQLSettings contains settings for the MySQL output database.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Database string
	Host     string
	Port     string
}

// OutputSettings groups the supported persistence backends. Exactly one
// backend must be enabled.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// TelemetrySettings contains settings for the Prometheus compatible
// telemetry endpoint.
type TelemetrySettings struct {
	Enabled bool
	Listen  string // IP address and port to listen on
}

// LogSettings contains settings for file logging.
type LogSettings struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string // node name for log records
	Log  LogSettings
}

// Settings is the root configuration for the application.
type Settings struct {
	Debug bool

	Main      MainSettings
	Monitor   MonitorSettings
	Output    OutputSettings
	Telemetry TelemetrySettings
}

var (
	settingsInstance *Settings
	settingsOnce     sync.Once
)

// Load reads the configuration from file and environment and returns the
// populated settings. Viper defaults are applied first so a missing config
// file is not an error.
func Load() (*Settings, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	for _, path := range configPaths() {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error reading config file: %w", err)
		}
		// no config file, defaults apply
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	settingsOnce.Do(func() {
		settingsInstance = settings
	})

	return settings, nil
}

// Setting returns the loaded settings, or nil if Load has not been called.
func Setting() *Settings {
	return settingsInstance
}

// Validate checks settings consistency and value ranges.
func (s *Settings) Validate() error {
	m := &s.Monitor
	if m.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive, got %v", m.Interval)
	}
	if m.NoFaceThreshold <= 0 || m.GazeThreshold <= 0 {
		return fmt.Errorf("monitor debounce thresholds must be positive")
	}
	if m.GazeCenterRatio <= 0 || m.GazeCenterRatio >= 0.5 {
		return fmt.Errorf("monitor.gazecenterratio must be in (0, 0.5), got %f", m.GazeCenterRatio)
	}
	if m.ObjectScoreMin < 0 || m.ObjectScoreMin > 1 {
		return fmt.Errorf("monitor.objectscoremin must be in [0, 1], got %f", m.ObjectScoreMin)
	}
	if m.NoiseRMSThreshold <= 0 {
		return fmt.Errorf("monitor.noisermsthreshold must be positive, got %f", m.NoiseRMSThreshold)
	}
	if m.SinkQueueSize <= 0 {
		return fmt.Errorf("monitor.sinkqueuesize must be positive, got %d", m.SinkQueueSize)
	}
	if s.Output.SQLite.Enabled && s.Output.MySQL.Enabled {
		return fmt.Errorf("only one output database may be enabled")
	}
	return nil
}

// configPaths returns the list of directories searched for the config file.
func configPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "proctor"))
	}
	return paths
}
