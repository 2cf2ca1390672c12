package monitor

import (
	"math"
	"time"

	"github.com/proctorsight/proctor-go/internal/integrity"
)

// GazeTracker debounces "face off-center" observations into looking_away
// events after a sustained deviation window. A face is looking away when
// its box center deviates from the frame center by more than centerRatio
// of the frame dimension on either axis.
//
// The deviation clock is shared across faces, not per-face: any face
// evaluated as centered, or an empty frame, clears it. Sub-threshold
// deviation earns no partial credit.
type GazeTracker struct {
	threshold   time.Duration
	centerRatio float64
	confidence  float64
	startedAt   time.Time // zero while no deviation interval is running
}

// NewGazeTracker creates a tracker with the given deviation threshold and
// center band ratio.
func NewGazeTracker(threshold time.Duration, centerRatio, confidence float64) *GazeTracker {
	return &GazeTracker{
		threshold:   threshold,
		centerRatio: centerRatio,
		confidence:  confidence,
	}
}

// Observe evaluates every face box for one tick and returns zero or more
// looking_away events, one per face whose deviation started at least the
// threshold ago and is still ongoing. Event duration is the full elapsed
// deviation time. After firing, the clock resets so a fresh interval can
// begin.
func (t *GazeTracker) Observe(faces []Box, frameWidth, frameHeight int, now time.Time) []integrity.Event {
	if len(faces) == 0 {
		t.startedAt = time.Time{}
		return nil
	}

	var events []integrity.Event
	for i := range faces {
		if !t.lookingAway(faces[i], frameWidth, frameHeight) {
			t.startedAt = time.Time{}
			continue
		}

		if t.startedAt.IsZero() {
			t.startedAt = now
			continue
		}

		if elapsed := now.Sub(t.startedAt); elapsed >= t.threshold {
			events = append(events, integrity.Event{
				Kind:       integrity.LookingAway,
				Timestamp:  now,
				Duration:   elapsed,
				Confidence: t.confidence,
			})
			t.startedAt = time.Time{}
		}
	}
	return events
}

// lookingAway reports whether the face center falls outside the center
// band on either axis.
func (t *GazeTracker) lookingAway(face Box, frameWidth, frameHeight int) bool {
	centerX, centerY := face.Center()
	frameCenterX := float64(frameWidth) / 2
	frameCenterY := float64(frameHeight) / 2

	thresholdX := float64(frameWidth) * t.centerRatio
	thresholdY := float64(frameHeight) * t.centerRatio

	return math.Abs(centerX-frameCenterX) > thresholdX ||
		math.Abs(centerY-frameCenterY) > thresholdY
}

// Reset clears any running deviation interval without emitting.
func (t *GazeTracker) Reset() {
	t.startedAt = time.Time{}
}
