package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorsight/proctor-go/internal/integrity"
	"github.com/proctorsight/proctor-go/internal/scoring"
)

func TestWriteCSV(t *testing.T) {
	base := time.Date(2026, time.March, 10, 9, 30, 15, 0, time.UTC)
	report := &scoring.Report{
		CandidateName: "Jane Candidate",
		Events: []integrity.Event{
			{Kind: integrity.LookingAway, Timestamp: base, Duration: 6 * time.Second, Confidence: 0.9},
			{Kind: integrity.PhoneDetected, Timestamp: base.Add(time.Minute), Duration: time.Second, Confidence: 0.55},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, report))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Time,Event Type,Duration,Confidence", lines[0])
	assert.Equal(t, "09:30:15,Looking Away,0:06,90%", lines[1])
	assert.Equal(t, "09:31:15,Phone Detected,0:01,55%", lines[2])
}

func TestWriteCSV_EmptyReport(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, &scoring.Report{CandidateName: "Nobody"}))

	assert.Equal(t, "Time,Event Type,Duration,Confidence\n", sb.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{time.Second, "0:01"},
		{90 * time.Second, "1:30"},
		{time.Hour + 5*time.Minute + 3*time.Second, "1:05:03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestFilename(t *testing.T) {
	report := &scoring.Report{CandidateName: "Jane Candidate"}
	assert.Equal(t, "proctoring_report_jane_candidate.csv", Filename(report))
}
