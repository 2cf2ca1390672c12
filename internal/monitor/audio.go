package monitor

import (
	"math"
	"time"

	"github.com/proctorsight/proctor-go/internal/integrity"
)

// AudioSignalFilter raises background_noise events when the tick's audio
// buffer exceeds an RMS energy threshold. Stateless per tick.
//
// Event confidence carries the raw RMS value unclamped. Callers must treat
// it as advisory magnitude rather than a strict probability.
type AudioSignalFilter struct {
	rmsThreshold float64
}

// NewAudioSignalFilter creates a filter with the given RMS threshold.
func NewAudioSignalFilter(rmsThreshold float64) *AudioSignalFilter {
	return &AudioSignalFilter{rmsThreshold: rmsThreshold}
}

// Observe computes the RMS level of the buffer and returns a
// background_noise event when it exceeds the threshold, nil otherwise.
func (f *AudioSignalFilter) Observe(samples []int16, now time.Time) *integrity.Event {
	rms := RMS(samples)
	if rms <= f.rmsThreshold {
		return nil
	}
	return &integrity.Event{
		Kind:       integrity.BackgroundNoise,
		Timestamp:  now,
		Duration:   integrity.NominalDuration,
		Confidence: rms,
	}
}

// RMS computes the root-mean-square of signed 16-bit PCM samples, each
// normalized to [-1, 1]. An empty buffer yields 0.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
