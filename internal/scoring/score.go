// Package scoring aggregates a session's integrity events into report
// scores.
package scoring

import "github.com/proctorsight/proctor-go/internal/integrity"

// MaxScore is the integrity score of a spotless session.
const MaxScore = 100

// deductions maps each event kind to the points it removes from the
// integrity score. Repeated identical events each deduct independently and
// no normalization by interview duration is applied: sustained or repeated
// violations cost proportionally more.
//
// Background noise carries no deduction; audio events are informational
// only.
var deductions = map[integrity.EventKind]int{
	integrity.LookingAway:     2,
	integrity.NoFace:          5,
	integrity.MultipleFaces:   10,
	integrity.PhoneDetected:   15,
	integrity.BookDetected:    10,
	integrity.DeviceDetected:  10,
	integrity.BackgroundNoise: 0,
}

// Deduction returns the points deducted for one event of the given kind.
// Unknown kinds deduct nothing.
func Deduction(kind integrity.EventKind) int {
	return deductions[kind]
}

// Score computes the integrity score for a full event history: MaxScore
// minus the per-event deductions, floored at zero.
func Score(events []integrity.Event) int {
	total := 0
	for i := range events {
		total += deductions[events[i].Kind]
	}
	if total >= MaxScore {
		return 0
	}
	return MaxScore - total
}
