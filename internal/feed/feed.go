// Package feed adapts a newline-delimited JSON observation stream into
// the detection pipeline. Each line carries one sampled frame together
// with the classifier output already computed for it, which lets the
// pipeline run against captures produced by an external vision service
// or recorded fixtures.
package feed

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/monitor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// box mirrors monitor.Box on the wire.
type box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (b box) toBox() monitor.Box {
	return monitor.Box{X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2}
}

type objectDetection struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Box   box     `json:"box"`
}

// observation is one NDJSON line: a sampled frame plus the detections
// computed for it upstream.
type observation struct {
	Timestamp time.Time         `json:"ts"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Faces     []box             `json:"faces"`
	Objects   []objectDetection `json:"objects"`
	Audio     []int16           `json:"audio"`
}

// Reader streams observations and presents them to the pipeline as a
// frame source with matching precomputed classifiers. The classifiers
// answer for the frame most recently returned by Next, so a Reader must
// be driven by a single detection cycle.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int

	mu      sync.Mutex
	current *observation
}

// NewReader wraps an NDJSON observation stream.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	reader := &Reader{scanner: scanner}
	if closer, ok := r.(io.Closer); ok {
		reader.closer = closer
	}
	return reader
}

// Open opens an observation file for streaming.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("feed").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return NewReader(f), nil
}

// Next decodes the next observation and returns its frame. Blank lines
// are skipped. Returns io.EOF once the stream is exhausted.
func (r *Reader) Next(ctx context.Context) (*monitor.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return nil, errors.New(err).
					Component("feed").
					Category(errors.CategoryFileIO).
					Context("line", r.line+1).
					Build()
			}
			return nil, io.EOF
		}
		r.line++

		data := r.scanner.Bytes()
		if len(data) == 0 {
			continue
		}

		var obs observation
		if err := json.Unmarshal(data, &obs); err != nil {
			return nil, errors.New(err).
				Component("feed").
				Category(errors.CategoryValidation).
				Context("line", r.line).
				Build()
		}

		r.mu.Lock()
		r.current = &obs
		r.mu.Unlock()

		return &monitor.Frame{
			Width:    obs.Width,
			Height:   obs.Height,
			Audio:    obs.Audio,
			Captured: obs.Timestamp,
		}, nil
	}
}

// Close releases the underlying stream if it is closable.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// DetectFaces returns the face boxes recorded for the current frame.
func (r *Reader) DetectFaces(_ context.Context, _ *monitor.Frame) ([]monitor.Box, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, nil
	}

	boxes := make([]monitor.Box, len(r.current.Faces))
	for i, b := range r.current.Faces {
		boxes[i] = b.toBox()
	}
	return boxes, nil
}

// DetectObjects returns the object detections recorded for the current
// frame.
func (r *Reader) DetectObjects(_ context.Context, _ *monitor.Frame) ([]monitor.ObjectDetection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, nil
	}

	detections := make([]monitor.ObjectDetection, len(r.current.Objects))
	for i, d := range r.current.Objects {
		detections[i] = monitor.ObjectDetection{
			Label: d.Label,
			Score: d.Score,
			Box:   d.Box.toBox(),
		}
	}
	return detections, nil
}
