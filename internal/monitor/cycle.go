package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/integrity"
	"github.com/proctorsight/proctor-go/internal/logging"
	"github.com/proctorsight/proctor-go/internal/telemetry"
)

// DetectionCycle orchestrates one sampling tick: it invokes the
// classifiers, feeds the per-signal detectors and merges their output into
// an ordered event batch.
//
// Batch order within a tick is a stable contract for downstream consumers:
// [presence, gaze..., multiplicity, object..., audio]. All tracker state is
// owned by this instance and mutated only from the tick sequence; construct
// one cycle per session.
type DetectionCycle struct {
	faces   FaceClassifier
	objects ObjectClassifier

	presence     *PresenceTracker
	gaze         *GazeTracker
	multiplicity *MultiplicityDetector
	objectFilter *ObjectSignalFilter
	audioFilter  *AudioSignalFilter

	interval           time.Duration
	processingTimeLogs bool

	now     func() time.Time
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// Option configures a DetectionCycle.
type Option func(*DetectionCycle)

// WithClock overrides the cycle clock, used by tests for deterministic
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *DetectionCycle) { c.now = now }
}

// WithLogger sets the cycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *DetectionCycle) { c.logger = logger }
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(c *DetectionCycle) { c.metrics = metrics }
}

// NewDetectionCycle creates a cycle with the classifiers injected and all
// detector state initialized from settings.
func NewDetectionCycle(settings *conf.MonitorSettings, faces FaceClassifier, objects ObjectClassifier, opts ...Option) *DetectionCycle {
	c := &DetectionCycle{
		faces:              faces,
		objects:            objects,
		presence:           NewPresenceTracker(settings.NoFaceThreshold, settings.TrackerConfidence),
		gaze:               NewGazeTracker(settings.GazeThreshold, settings.GazeCenterRatio, settings.TrackerConfidence),
		multiplicity:       NewMultiplicityDetector(settings.TrackerConfidence),
		objectFilter:       NewObjectSignalFilter(settings.ObjectScoreMin),
		audioFilter:        NewAudioSignalFilter(settings.NoiseRMSThreshold),
		interval:           settings.Interval,
		processingTimeLogs: settings.ProcessingTimeLogs,
		now:                time.Now,
		logger:             logging.ForService("monitor"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunTick executes one detection tick over the frame and returns the
// merged, ordered event batch. A classifier failure is logged and yields
// empty detections for that source; the tick continues with whatever
// succeeded.
func (c *DetectionCycle) RunTick(ctx context.Context, frame *Frame) []integrity.Event {
	started := c.now()
	now := frame.Captured
	if now.IsZero() {
		now = started
	}

	objectDetections, err := c.objects.DetectObjects(ctx, frame)
	if err != nil {
		c.classifierFailed("object", err)
		objectDetections = nil
	}

	faceBoxes, err := c.faces.DetectFaces(ctx, frame)
	if err != nil {
		c.classifierFailed("face", err)
		faceBoxes = nil
	}

	var events []integrity.Event

	// Presence sees the raw face count before any other interpretation.
	if event := c.presence.Observe(len(faceBoxes), now); event != nil {
		events = append(events, *event)
	}

	events = append(events, c.gaze.Observe(faceBoxes, frame.Width, frame.Height, now)...)

	if event := c.multiplicity.Observe(faceBoxes, now); event != nil {
		events = append(events, *event)
	}

	events = append(events, c.objectFilter.Observe(objectDetections, now)...)

	if event := c.audioFilter.Observe(frame.Audio, now); event != nil {
		events = append(events, *event)
	}

	elapsed := c.now().Sub(started)
	if c.metrics != nil {
		c.metrics.TickDuration.Observe(elapsed.Seconds())
		for i := range events {
			c.metrics.EventsEmitted.WithLabelValues(string(events[i].Kind)).Inc()
		}
	}
	if c.processingTimeLogs {
		c.logger.Debug("tick processed", "duration_ms", elapsed.Milliseconds(), "events", len(events))
	}

	return events
}

// Run executes the sampling loop against the frame source, delivering each
// tick's events to the sink. Ticks never overlap: the next tick is
// scheduled only after the previous tick's processing completes.
//
// Run returns nil when the source is exhausted or the context is
// cancelled. On cancellation pending debounce intervals are discarded
// without emitting. A frame source failure is returned to the caller;
// without frames no ticks can run.
func (c *DetectionCycle) Run(ctx context.Context, source FrameSource, sink EventSink) error {
	defer c.resetTrackers()

	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		frame, err := source.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, context.Canceled):
				return nil
			default:
				return err
			}
		}

		for _, event := range c.RunTick(ctx, frame) {
			sink.Deliver(event)
		}

		timer.Reset(c.interval)
	}
}

func (c *DetectionCycle) resetTrackers() {
	c.presence.Reset()
	c.gaze.Reset()
}

func (c *DetectionCycle) classifierFailed(name string, err error) {
	c.logger.Warn("classifier unavailable, proceeding with empty results",
		"classifier", name,
		"error", err)
	if c.metrics != nil {
		c.metrics.ClassifierFailures.WithLabelValues(name).Inc()
	}
}
