package monitor

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/integrity"
)

func testMonitorSettings() *conf.MonitorSettings {
	return &conf.MonitorSettings{
		Interval:          500 * time.Millisecond,
		NoFaceThreshold:   10 * time.Second,
		GazeThreshold:     5 * time.Second,
		GazeCenterRatio:   0.15,
		ObjectScoreMin:    0.2,
		NoiseRMSThreshold: 0.05,
		TrackerConfidence: 0.9,
		SinkQueueSize:     16,
	}
}

type fakeFaceClassifier struct {
	boxes []Box
	err   error
}

func (f *fakeFaceClassifier) DetectFaces(context.Context, *Frame) ([]Box, error) {
	return f.boxes, f.err
}

type fakeObjectClassifier struct {
	detections []ObjectDetection
	err        error
}

func (f *fakeObjectClassifier) DetectObjects(context.Context, *Frame) ([]ObjectDetection, error) {
	return f.detections, f.err
}

type collectingSink struct {
	mu     sync.Mutex
	events []integrity.Event
}

func (s *collectingSink) Deliver(event integrity.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *collectingSink) collected() []integrity.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]integrity.Event(nil), s.events...)
}

func loudBuffer() []int16 {
	buf := make([]int16, 256)
	for i := range buf {
		buf[i] = 6553 // ~0.2 of full scale
	}
	return buf
}

func kindsOf(events []integrity.Event) []integrity.EventKind {
	kinds := make([]integrity.EventKind, len(events))
	for i := range events {
		kinds[i] = events[i].Kind
	}
	return kinds
}

func TestRunTick_MergeOrderIsStable(t *testing.T) {
	faces := &fakeFaceClassifier{boxes: []Box{offCenterFace(), {X1: 420, Y1: 10, X2: 520, Y2: 110}}}
	objects := &fakeObjectClassifier{detections: []ObjectDetection{{Label: "cell phone", Score: 0.6}}}

	cycle := NewDetectionCycle(testMonitorSettings(), faces, objects)

	// First tick primes the gaze clock; both faces are off-center so the
	// shared clock survives the whole face loop.
	frame := &Frame{Width: frameW, Height: frameH, Audio: loudBuffer(), Captured: testBase}
	first := cycle.RunTick(context.Background(), frame)
	assert.Equal(t,
		[]integrity.EventKind{integrity.MultipleFaces, integrity.PhoneDetected, integrity.BackgroundNoise},
		kindsOf(first))

	// Second tick, past the gaze threshold: gaze fires first, then the
	// stateless signals in their fixed positions.
	frame2 := &Frame{Width: frameW, Height: frameH, Audio: loudBuffer(), Captured: testBase.Add(6 * time.Second)}
	second := cycle.RunTick(context.Background(), frame2)
	assert.Equal(t,
		[]integrity.EventKind{integrity.LookingAway, integrity.MultipleFaces, integrity.PhoneDetected, integrity.BackgroundNoise},
		kindsOf(second))
}

func TestRunTick_ObjectClassifierFailureDegrades(t *testing.T) {
	faces := &fakeFaceClassifier{boxes: []Box{centeredFace(), centeredFace()}}
	objects := &fakeObjectClassifier{err: errors.New("model not loaded")}

	cycle := NewDetectionCycle(testMonitorSettings(), faces, objects)

	events := cycle.RunTick(context.Background(), &Frame{Width: frameW, Height: frameH, Captured: testBase})

	// Face signals still flow; the failed object source contributes nothing.
	assert.Equal(t, []integrity.EventKind{integrity.MultipleFaces}, kindsOf(events))
}

func TestRunTick_FaceClassifierFailureCountsAsAbsence(t *testing.T) {
	faces := &fakeFaceClassifier{err: errors.New("transient failure")}
	objects := &fakeObjectClassifier{}

	cycle := NewDetectionCycle(testMonitorSettings(), faces, objects)

	// Sustained classifier failure reads as zero faces; the presence
	// tracker debounces it like any other absence.
	assert.Empty(t, cycle.RunTick(context.Background(), &Frame{Width: frameW, Height: frameH, Captured: testBase}))
	events := cycle.RunTick(context.Background(), &Frame{Width: frameW, Height: frameH, Captured: testBase.Add(10 * time.Second)})
	assert.Equal(t, []integrity.EventKind{integrity.NoFace}, kindsOf(events))
}

func TestRunTick_UsesCycleClockWhenFrameUnstamped(t *testing.T) {
	faces := &fakeFaceClassifier{boxes: []Box{centeredFace(), centeredFace()}}
	objects := &fakeObjectClassifier{}

	clock := testBase
	cycle := NewDetectionCycle(testMonitorSettings(), faces, objects,
		WithClock(func() time.Time { return clock }))

	events := cycle.RunTick(context.Background(), &Frame{Width: frameW, Height: frameH})
	require.Len(t, events, 1)
	assert.Equal(t, testBase, events[0].Timestamp)
}

func TestRunTick_QuietCenteredTickEmitsNothing(t *testing.T) {
	faces := &fakeFaceClassifier{boxes: []Box{centeredFace()}}
	objects := &fakeObjectClassifier{}

	cycle := NewDetectionCycle(testMonitorSettings(), faces, objects)

	events := cycle.RunTick(context.Background(), &Frame{
		Width: frameW, Height: frameH,
		Audio:    make([]int16, 256),
		Captured: testBase,
	})
	assert.Empty(t, events)
}

// scriptedSource returns prepared frames in order, then io.EOF.
type scriptedSource struct {
	frames []*Frame
	next   int
	closed bool
}

func (s *scriptedSource) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	frame := s.frames[s.next]
	s.next++
	return frame, nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

func TestRun_ProcessesSourceUntilEOF(t *testing.T) {
	faces := &fakeFaceClassifier{boxes: []Box{centeredFace(), centeredFace()}}
	objects := &fakeObjectClassifier{}

	settings := testMonitorSettings()
	settings.Interval = time.Millisecond

	cycle := NewDetectionCycle(settings, faces, objects)
	source := &scriptedSource{frames: []*Frame{
		{Width: frameW, Height: frameH, Captured: testBase},
		{Width: frameW, Height: frameH, Captured: testBase.Add(500 * time.Millisecond)},
	}}
	sink := &collectingSink{}

	err := cycle.Run(context.Background(), source, sink)

	require.NoError(t, err)
	// Both ticks saw two faces.
	assert.Equal(t,
		[]integrity.EventKind{integrity.MultipleFaces, integrity.MultipleFaces},
		kindsOf(sink.collected()))
}

func TestRun_SourceFailureIsVisible(t *testing.T) {
	faces := &fakeFaceClassifier{}
	objects := &fakeObjectClassifier{}

	settings := testMonitorSettings()
	settings.Interval = time.Millisecond

	cycle := NewDetectionCycle(settings, faces, objects)
	failure := errors.New("camera unavailable")
	source := &failingSource{err: failure}

	err := cycle.Run(context.Background(), source, &collectingSink{})
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
}

type failingSource struct{ err error }

func (s *failingSource) Next(context.Context) (*Frame, error) { return nil, s.err }
func (s *failingSource) Close() error                         { return nil }

func TestRun_ShutdownDiscardsPendingIntervals(t *testing.T) {
	faces := &fakeFaceClassifier{} // zero faces: every tick extends an absence interval
	objects := &fakeObjectClassifier{}

	settings := testMonitorSettings()
	settings.Interval = time.Millisecond

	cycle := NewDetectionCycle(settings, faces, objects)
	sink := &collectingSink{}

	source := &scriptedSource{frames: []*Frame{
		{Width: frameW, Height: frameH, Captured: testBase},
		{Width: frameW, Height: frameH, Captured: testBase.Add(500 * time.Millisecond)},
	}}

	err := cycle.Run(context.Background(), source, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.collected())

	// The absence interval opened before shutdown must not fire even if
	// observation resumes past its original deadline.
	late := cycle.RunTick(context.Background(), &Frame{Width: frameW, Height: frameH, Captured: testBase.Add(11 * time.Second)})
	assert.Empty(t, late)
}

func TestRun_ImmediateCancelEmitsNothing(t *testing.T) {
	settings := testMonitorSettings()
	settings.Interval = time.Millisecond

	cycle := NewDetectionCycle(settings, &fakeFaceClassifier{}, &fakeObjectClassifier{})
	sink := &collectingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cycle.Run(ctx, &scriptedSource{frames: []*Frame{{Width: frameW, Height: frameH}}}, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.collected())
}
