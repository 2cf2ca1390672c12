// Package analysis runs the audio signal filter over recorded WAV files,
// producing the same background noise events the live pipeline would
// have emitted tick by tick.
package analysis

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/integrity"
	"github.com/proctorsight/proctor-go/internal/logging"
	"github.com/proctorsight/proctor-go/internal/monitor"
)

// Result summarizes one analyzed recording.
type Result struct {
	Duration time.Duration
	Windows  int
	Events   []integrity.Event
}

// Analyzer slices a recording into windows of the sampling cadence and
// evaluates each window with the noise filter.
type Analyzer struct {
	filter   *monitor.AudioSignalFilter
	interval time.Duration
	logger   *slog.Logger
}

// NewAnalyzer creates an analyzer using the given noise threshold and
// window cadence.
func NewAnalyzer(rmsThreshold float64, interval time.Duration) *Analyzer {
	return &Analyzer{
		filter:   monitor.NewAudioSignalFilter(rmsThreshold),
		interval: interval,
		logger:   logging.ForService("analysis"),
	}
}

// AnalyzeFile decodes a WAV file and returns the noise events found in
// it. Event timestamps are offsets from start, one window apart. A
// trailing partial window is evaluated like any other.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, start time.Time) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, errors.Newf("not a valid wav file: %s", path).
			Component("analysis").
			Category(errors.CategoryAudio).
			Build()
	}
	decoder.ReadInfo()

	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	if channels < 1 || sampleRate < 1 {
		return nil, errors.Newf("wav header reports %d channels at %d Hz", channels, sampleRate).
			Component("analysis").
			Category(errors.CategoryAudio).
			Build()
	}

	windowFrames := int(float64(sampleRate) * a.interval.Seconds())
	if windowFrames < 1 {
		windowFrames = 1
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:   make([]int, windowFrames*channels),
	}

	result := &Result{}
	bitDepth := int(decoder.BitDepth)

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(err).
				Component("analysis").
				Category(errors.CategoryCancellation).
				Build()
		}

		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, errors.New(err).
				Component("analysis").
				Category(errors.CategoryAudio).
				Context("path", path).
				Build()
		}
		if n == 0 {
			break
		}

		window := monoSamples(buf.Data[:n], channels, bitDepth)
		at := start.Add(time.Duration(result.Windows) * a.interval)
		if event := a.filter.Observe(window, at); event != nil {
			result.Events = append(result.Events, *event)
		}
		result.Windows++
		result.Duration += windowDuration(len(window), sampleRate)

		if n < len(buf.Data) {
			break
		}
	}

	a.logger.Info("recording analyzed",
		"path", path,
		"windows", result.Windows,
		"noise_events", len(result.Events))

	return result, nil
}

// AnalyzeToSession analyzes a recording and appends every resulting
// event to the session. Returns the analysis result.
func (a *Analyzer) AnalyzeToSession(ctx context.Context, store monitor.EventStore, sessionID, path string, start time.Time) (*Result, error) {
	result, err := a.AnalyzeFile(ctx, path, start)
	if err != nil {
		return nil, err
	}

	for i := range result.Events {
		if err := store.AppendEvent(ctx, sessionID, result.Events[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// monoSamples downmixes interleaved PCM to 16 bit mono by averaging the
// channels of each frame.
func monoSamples(data []int, channels, bitDepth int) []int16 {
	frames := len(data) / channels
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		out[i] = toInt16(sum/channels, bitDepth)
	}
	return out
}

func toInt16(v, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(v)
	case bitDepth == 8:
		// 8 bit wav is unsigned
		return int16((v - 128) << 8)
	case bitDepth > 16:
		return int16(v >> (bitDepth - 16))
	default:
		return int16(v << (16 - bitDepth))
	}
}

func windowDuration(frames, sampleRate int) time.Duration {
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}
