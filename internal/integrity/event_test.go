package integrity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_Valid(t *testing.T) {
	now := time.Now()

	event, err := NewEvent(PhoneDetected, now, NominalDuration, 0.55)

	require.NoError(t, err)
	assert.Equal(t, PhoneDetected, event.Kind)
	assert.Equal(t, now, event.Timestamp)
	assert.Equal(t, time.Second, event.Duration)
	assert.InDelta(t, 0.55, event.Confidence, 0.001)
}

func TestNewEvent_UnknownKind(t *testing.T) {
	_, err := NewEvent(EventKind("car_detected"), time.Now(), NominalDuration, 0.5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event kind")
}

func TestNewEvent_EmptyKind(t *testing.T) {
	_, err := NewEvent(EventKind(""), time.Now(), NominalDuration, 0.5)

	require.Error(t, err)
}

func TestNewEvent_ZeroTimestamp(t *testing.T) {
	_, err := NewEvent(NoFace, time.Time{}, NominalDuration, 0.9)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}

func TestNewEvent_NegativeDuration(t *testing.T) {
	_, err := NewEvent(NoFace, time.Now(), -time.Second, 0.9)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration")
}

func TestNewEvent_ConfidenceAboveOneAllowed(t *testing.T) {
	// Background noise confidence is raw RMS magnitude and may exceed 1.
	event, err := NewEvent(BackgroundNoise, time.Now(), NominalDuration, 1.4)

	require.NoError(t, err)
	assert.InDelta(t, 1.4, event.Confidence, 0.001)
}

func TestEventKind_Label(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{LookingAway, "Looking Away"},
		{NoFace, "No Face Detected"},
		{MultipleFaces, "Multiple Faces"},
		{PhoneDetected, "Phone Detected"},
		{BookDetected, "Book/Notes Detected"},
		{DeviceDetected, "Electronic Device Detected"},
		{BackgroundNoise, "Background Noise"},
		{EventKind("mystery"), "mystery"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Label())
		})
	}
}

func TestKinds_AllValid(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 7)
	for _, k := range kinds {
		assert.True(t, k.Valid(), "kind %q should be valid", k)
	}
}
