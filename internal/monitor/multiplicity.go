package monitor

import (
	"time"

	"github.com/proctorsight/proctor-go/internal/integrity"
)

// MultiplicityDetector fires when more than one genuine face is visible.
// Stateless: it fires on every qualifying tick independently, downstream
// aggregation tolerates repeated identical events across adjacent ticks.
type MultiplicityDetector struct {
	confidence float64
}

// NewMultiplicityDetector creates a detector with the given fixed
// confidence.
func NewMultiplicityDetector(confidence float64) *MultiplicityDetector {
	return &MultiplicityDetector{confidence: confidence}
}

// Observe returns a multiple_faces event when the genuine face count
// exceeds one, nil otherwise. Only classifier-produced boxes count; the
// pipeline never passes synthetic absence markers here.
func (d *MultiplicityDetector) Observe(faces []Box, now time.Time) *integrity.Event {
	if len(faces) <= 1 {
		return nil
	}
	return &integrity.Event{
		Kind:       integrity.MultipleFaces,
		Timestamp:  now,
		Duration:   integrity.NominalDuration,
		Confidence: d.confidence,
	}
}
