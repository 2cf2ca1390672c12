package conf

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings(t *testing.T) *Settings {
	t.Helper()
	viper.Reset()
	setDefaults()

	settings := &Settings{}
	require.NoError(t, viper.Unmarshal(settings))
	return settings
}

func TestDefaults(t *testing.T) {
	s := defaultSettings(t)

	assert.Equal(t, 500*time.Millisecond, s.Monitor.Interval)
	assert.Equal(t, 10*time.Second, s.Monitor.NoFaceThreshold)
	assert.Equal(t, 5*time.Second, s.Monitor.GazeThreshold)
	assert.InDelta(t, 0.15, s.Monitor.GazeCenterRatio, 0.001)
	assert.InDelta(t, 0.2, s.Monitor.ObjectScoreMin, 0.001)
	assert.InDelta(t, 0.05, s.Monitor.NoiseRMSThreshold, 0.001)
	assert.InDelta(t, 0.9, s.Monitor.TrackerConfidence, 0.001)
	assert.True(t, s.Output.SQLite.Enabled)
	assert.False(t, s.Output.MySQL.Enabled)
}

func TestDefaultsValidate(t *testing.T) {
	s := defaultSettings(t)
	require.NoError(t, s.Validate())
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{
			name:    "zero interval",
			mutate:  func(s *Settings) { s.Monitor.Interval = 0 },
			wantErr: "monitor.interval",
		},
		{
			name:    "zero gaze threshold",
			mutate:  func(s *Settings) { s.Monitor.GazeThreshold = 0 },
			wantErr: "debounce thresholds",
		},
		{
			name:    "center ratio too large",
			mutate:  func(s *Settings) { s.Monitor.GazeCenterRatio = 0.7 },
			wantErr: "gazecenterratio",
		},
		{
			name:    "object score out of range",
			mutate:  func(s *Settings) { s.Monitor.ObjectScoreMin = 1.5 },
			wantErr: "objectscoremin",
		},
		{
			name:    "negative noise threshold",
			mutate:  func(s *Settings) { s.Monitor.NoiseRMSThreshold = -0.1 },
			wantErr: "noisermsthreshold",
		},
		{
			name: "both databases enabled",
			mutate: func(s *Settings) {
				s.Output.SQLite.Enabled = true
				s.Output.MySQL.Enabled = true
			},
			wantErr: "only one output database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultSettings(t)
			tt.mutate(s)

			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
