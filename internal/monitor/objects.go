package monitor

import (
	"time"

	"github.com/proctorsight/proctor-go/internal/integrity"
)

// suspiciousObjects maps object classifier labels to the event kind they
// raise. Unmapped labels produce no event.
var suspiciousObjects = map[string]integrity.EventKind{
	"cell phone": integrity.PhoneDetected,
	"book":       integrity.BookDetected,
	"laptop":     integrity.DeviceDetected,
	"tv":         integrity.DeviceDetected,
	"clock":      integrity.DeviceDetected,
}

// ObjectSignalFilter maps object classifier detections to integrity events
// with a score floor. Stateless per tick.
type ObjectSignalFilter struct {
	scoreMin float64
}

// NewObjectSignalFilter creates a filter that ignores detections at or
// below scoreMin.
func NewObjectSignalFilter(scoreMin float64) *ObjectSignalFilter {
	return &ObjectSignalFilter{scoreMin: scoreMin}
}

// Observe returns one event per qualifying detection. Event confidence is
// the raw classifier score.
func (f *ObjectSignalFilter) Observe(detections []ObjectDetection, now time.Time) []integrity.Event {
	var events []integrity.Event
	for i := range detections {
		kind, ok := suspiciousObjects[detections[i].Label]
		if !ok || detections[i].Score <= f.scoreMin {
			continue
		}
		events = append(events, integrity.Event{
			Kind:       kind,
			Timestamp:  now,
			Duration:   integrity.NominalDuration,
			Confidence: detections[i].Score,
		})
	}
	return events
}
