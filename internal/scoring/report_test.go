package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorsight/proctor-go/internal/datastore"
	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/integrity"
)

type stubReader struct {
	session *datastore.Session
	events  []integrity.Event
	calls   int
}

func (r *stubReader) GetSession(context.Context, string) (*datastore.Session, error) {
	r.calls++
	if r.session == nil {
		return nil, errors.Newf("session not found").Category(errors.CategoryNotFound).Build()
	}
	return r.session, nil
}

func (r *stubReader) GetEvents(context.Context, string) ([]integrity.Event, error) {
	return r.events, nil
}

func endedSession() *datastore.Session {
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	return &datastore.Session{
		ID:            "session-1",
		CandidateName: "Jane Candidate",
		StartTime:     start,
		EndTime:       &end,
		Duration:      1800,
		FocusScore:    datastore.DefaultFocusScore,
	}
}

func TestGenerator_Report(t *testing.T) {
	reader := &stubReader{
		session: endedSession(),
		events: eventsOf(
			integrity.LookingAway,
			integrity.LookingAway,
			integrity.PhoneDetected,
		),
	}

	report, err := NewGenerator(reader).Report(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Equal(t, "Jane Candidate", report.CandidateName)
	assert.Equal(t, 1800, report.InterviewDuration)
	assert.Equal(t, 100, report.FocusScore)
	assert.Equal(t, 81, report.IntegrityScore)
	require.Len(t, report.Events, 3)
	// Event order matches storage order.
	assert.Equal(t, integrity.LookingAway, report.Events[0].Kind)
	assert.Equal(t, integrity.PhoneDetected, report.Events[2].Kind)
}

func TestGenerator_ReportNotFound(t *testing.T) {
	reader := &stubReader{}

	_, err := NewGenerator(reader).Report(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGenerator_CachesEndedSessions(t *testing.T) {
	reader := &stubReader{session: endedSession()}
	generator := NewGenerator(reader)

	_, err := generator.Report(context.Background(), "session-1")
	require.NoError(t, err)
	_, err = generator.Report(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls)
}

func TestGenerator_RecomputesOpenSessions(t *testing.T) {
	open := endedSession()
	open.EndTime = nil
	reader := &stubReader{session: open}
	generator := NewGenerator(reader)

	_, err := generator.Report(context.Background(), "session-1")
	require.NoError(t, err)

	// New events keep arriving while the session is live; the second
	// report must reflect them.
	reader.events = eventsOf(integrity.NoFace)
	report, err := generator.Report(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Equal(t, 95, report.IntegrityScore)
	assert.Equal(t, 2, reader.calls)
}
