// model.go: database entities for interview sessions and their events.
package datastore

import (
	"time"

	"github.com/proctorsight/proctor-go/internal/integrity"
)

// DefaultFocusScore is the baseline focus score assigned to new sessions.
// It is a stored value, not derived from events.
const DefaultFocusScore = 100

// Session represents one monitored interview.
type Session struct {
	ID            string     `gorm:"primaryKey;size:36"`
	CandidateName string     `gorm:"index;not null"`
	StartTime     time.Time  `gorm:"index"`
	EndTime       *time.Time // nil until the session ends
	Duration      int        // duration in seconds, set when the session ends
	FocusScore    int

	Events []Event `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// Ended reports whether the session has been closed.
func (s *Session) Ended() bool {
	return s.EndTime != nil
}

// Event represents one persisted integrity event. Rows are append-only:
// the detection core never mutates or deletes them, and insertion order is
// the chronological order of emission.
type Event struct {
	ID         uint      `gorm:"primaryKey"`
	SessionID  string    `gorm:"index;not null;size:36"`
	Kind       string    `gorm:"index;type:varchar(32);not null"`
	Timestamp  time.Time `gorm:"index"`
	DurationMs int64
	Confidence float64
}

// newEventRecord converts a domain event into its database entity.
func newEventRecord(sessionID string, event integrity.Event) Event {
	return Event{
		SessionID:  sessionID,
		Kind:       string(event.Kind),
		Timestamp:  event.Timestamp,
		DurationMs: event.Duration.Milliseconds(),
		Confidence: event.Confidence,
	}
}

// Domain converts the entity back into the domain model.
func (e *Event) Domain() integrity.Event {
	return integrity.Event{
		Kind:       integrity.EventKind(e.Kind),
		Timestamp:  e.Timestamp,
		Duration:   time.Duration(e.DurationMs) * time.Millisecond,
		Confidence: e.Confidence,
	}
}
