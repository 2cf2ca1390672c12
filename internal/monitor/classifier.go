// Package monitor implements the interview integrity detection pipeline.
// A DetectionCycle samples frames at a fixed cadence, feeds classifier
// output through per-signal detectors and merges their events into one
// ordered batch per tick.
//
// The pipeline is defined against abstract classifier capabilities only
// (bounding box, score, label) so any conforming face or object model can
// be substituted, including test doubles.
package monitor

import (
	"context"
	"time"
)

// Box is a bounding box in frame pixel coordinates.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Center returns the center point of the box.
func (b Box) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// ObjectDetection is a single object classifier result.
type ObjectDetection struct {
	Label string
	Score float64
	Box   Box
}

// Frame is one sampled image plus the audio buffer captured for the same
// tick. Frames are owned transiently by the detection cycle and are never
// persisted.
type Frame struct {
	Width  int
	Height int

	// Image holds the encoded image sample. The pipeline treats it as
	// opaque data for the classifiers.
	Image []byte

	// Audio holds signed PCM amplitude samples aligned to this tick.
	Audio []int16

	// Captured is the capture instant reported by the frame source.
	// Zero means the source does not timestamp frames and the cycle
	// clock is used instead.
	Captured time.Time
}

// FaceClassifier detects faces in a frame. A transient failure yields an
// error which the detection cycle treats as no detections for that tick.
type FaceClassifier interface {
	DetectFaces(ctx context.Context, frame *Frame) ([]Box, error)
}

// ObjectClassifier detects labeled objects in a frame.
type ObjectClassifier interface {
	DetectObjects(ctx context.Context, frame *Frame) ([]ObjectDetection, error)
}

// FrameSource supplies frames at the sampling cadence. Next blocks until a
// frame is available, the source is exhausted (io.EOF) or the context is
// cancelled.
type FrameSource interface {
	Next(ctx context.Context) (*Frame, error)
	Close() error
}
