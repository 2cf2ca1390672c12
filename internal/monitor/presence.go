package monitor

import (
	"time"

	"github.com/proctorsight/proctor-go/internal/integrity"
)

// PresenceTracker debounces "no face" observations into a single event
// after a sustained absence window. The tracker is poll-based: Observe is
// called once per tick and compares elapsed absence against the threshold.
//
// State is owned exclusively by the tracker instance and mutated only from
// the tick sequence, one tracker per session.
type PresenceTracker struct {
	threshold  time.Duration
	confidence float64
	startedAt  time.Time // zero while no absence interval is running
}

// NewPresenceTracker creates a tracker with the given absence threshold.
func NewPresenceTracker(threshold time.Duration, confidence float64) *PresenceTracker {
	return &PresenceTracker{
		threshold:  threshold,
		confidence: confidence,
	}
}

// Observe records the face count for one tick. It returns a no_face event
// when continuous absence reaches the threshold, firing exactly once per
// sustained interval. Any face observation cancels a running interval
// without emitting, cancellation wins over firing within the same tick.
func (t *PresenceTracker) Observe(faceCount int, now time.Time) *integrity.Event {
	if faceCount > 0 {
		t.startedAt = time.Time{}
		return nil
	}

	if t.startedAt.IsZero() {
		t.startedAt = now
		return nil
	}

	elapsed := now.Sub(t.startedAt)
	if elapsed < t.threshold {
		return nil
	}

	// Fired: reset so a fresh interval starts on the next absent tick.
	t.startedAt = time.Time{}
	return &integrity.Event{
		Kind:       integrity.NoFace,
		Timestamp:  now,
		Duration:   elapsed,
		Confidence: t.confidence,
	}
}

// Reset clears any running absence interval without emitting. Used on
// cancellation so a pending interval never produces a final event.
func (t *PresenceTracker) Reset() {
	t.startedAt = time.Time{}
}
