package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults initializes viper with default configuration values.
func setDefaults() {
	viper.SetDefault("debug", false)

	// Main configuration
	viper.SetDefault("main.name", "Proctor-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "proctor.log")
	viper.SetDefault("main.log.maxsizemb", 100)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxagedays", 28)

	// Detection pipeline configuration: 500ms sampling, 10s absence
	// window, 5s gaze window, 15% center band, 0.2 object score floor,
	// 0.05 noise RMS.
	viper.SetDefault("monitor.interval", 500*time.Millisecond)
	viper.SetDefault("monitor.nofacethreshold", 10*time.Second)
	viper.SetDefault("monitor.gazethreshold", 5*time.Second)
	viper.SetDefault("monitor.gazecenterratio", 0.15)
	viper.SetDefault("monitor.objectscoremin", 0.2)
	viper.SetDefault("monitor.noisermsthreshold", 0.05)
	viper.SetDefault("monitor.trackerconfidence", 0.9)
	viper.SetDefault("monitor.sinkqueuesize", 64)
	viper.SetDefault("monitor.processingtimelogs", false)

	// Output configuration
	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "proctor.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "proctor")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "proctor")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	// Telemetry configuration
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "localhost:8090")
}
