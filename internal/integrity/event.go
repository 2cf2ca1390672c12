// Package integrity provides the core domain model for interview integrity
// events. This package defines Event as the single source of truth for
// detection output used throughout the application. External serialization
// (database, CSV export) is handled by boundary-specific entities.
package integrity

import (
	"fmt"
	"time"
)

// EventKind identifies the integrity concern an event records.
type EventKind string

const (
	LookingAway     EventKind = "looking_away"
	NoFace          EventKind = "no_face"
	MultipleFaces   EventKind = "multiple_faces"
	PhoneDetected   EventKind = "phone_detected"
	BookDetected    EventKind = "book_detected"
	DeviceDetected  EventKind = "device_detected"
	BackgroundNoise EventKind = "background_noise"
)

// kindLabels maps event kinds to human-readable labels for reports and export.
var kindLabels = map[EventKind]string{
	LookingAway:     "Looking Away",
	NoFace:          "No Face Detected",
	MultipleFaces:   "Multiple Faces",
	PhoneDetected:   "Phone Detected",
	BookDetected:    "Book/Notes Detected",
	DeviceDetected:  "Electronic Device Detected",
	BackgroundNoise: "Background Noise",
}

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// Label returns the human-readable label for the kind, or the raw kind
// string if no label is registered.
func (k EventKind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// Event represents a single finalized integrity concern.
// An Event is immutable once created; detection components construct events
// through NewEvent and never modify them afterwards.
type Event struct {
	// Kind is always set before an event is emitted, never empty.
	Kind EventKind

	// Timestamp is the instant the event was finalized, i.e. when a
	// debounce window closed or a stateless check fired.
	Timestamp time.Time

	// Duration is the elapsed time attributed to the underlying condition.
	// Debounced events carry the full sustained interval; stateless
	// per-tick events carry a fixed nominal duration.
	Duration time.Duration

	// Confidence is advisory magnitude, not a strict probability. Most
	// detectors report values in [0,1] but background noise events carry
	// the raw RMS level which may exceed 1.
	Confidence float64
}

// NominalDuration is the fixed duration attributed to stateless per-tick
// events (multiple faces, objects, background noise).
const NominalDuration = time.Second

// NewEvent creates an integrity event and validates required fields.
func NewEvent(kind EventKind, timestamp time.Time, duration time.Duration, confidence float64) (Event, error) {
	if !kind.Valid() {
		return Event{}, fmt.Errorf("unknown event kind: %q", kind)
	}
	if timestamp.IsZero() {
		return Event{}, fmt.Errorf("event timestamp cannot be zero")
	}
	if duration < 0 {
		return Event{}, fmt.Errorf("event duration cannot be negative, got %v", duration)
	}
	if confidence < 0 {
		return Event{}, fmt.Errorf("event confidence cannot be negative, got %f", confidence)
	}
	return Event{
		Kind:       kind,
		Timestamp:  timestamp,
		Duration:   duration,
		Confidence: confidence,
	}, nil
}

// Kinds returns all known event kinds in a stable order.
func Kinds() []EventKind {
	return []EventKind{
		LookingAway,
		NoFace,
		MultipleFaces,
		PhoneDetected,
		BookDetected,
		DeviceDetected,
		BackgroundNoise,
	}
}
