// Package audio holds the immutable sample buffers every renderer reads from,
// and the preprocessing that derives half- and quarter-rate copies of them.
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrTooFewSamples     = errors.New("audio buffer needs at least 2 samples")
	ErrInvalidSampleRate = errors.New("sample rate must be a positive finite number")
)

// Buffer is a mono, sample-rate-tagged sequence of samples.
// It is never written after NewBuffer returns, so one *Buffer can be handed
// to any number of renderers on any number of goroutines.
type Buffer struct {
	samples    []float32
	sampleRate float64
}

// NewBuffer copies samples into a new Buffer
func NewBuffer(samples []float32, sampleRate float64) (*Buffer, error) {
	owned := make([]float32, len(samples))
	copy(owned, samples)
	return newOwnedBuffer(owned, sampleRate)
}

// newOwnedBuffer takes ownership of samples without copying
func newOwnedBuffer(samples []float32, sampleRate float64) (*Buffer, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, len(samples))
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSampleRate, sampleRate)
	}
	return &Buffer{samples: samples, sampleRate: sampleRate}, nil
}

// Samples returns the underlying samples. The slice is shared; callers must not modify it.
func (b *Buffer) Samples() []float32 { return b.samples }

// Len returns the number of samples
func (b *Buffer) Len() int { return len(b.samples) }

// SampleRate returns the sample rate in Hz
func (b *Buffer) SampleRate() float64 { return b.sampleRate }

// Seconds returns the length of the buffer in seconds
func (b *Buffer) Seconds() float64 {
	return float64(len(b.samples)) / b.sampleRate
}

// Duration returns the length of the buffer as a time.Duration
func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// TimeToSample converts a time in seconds to the nearest sample index.
// The result may lie outside [0, Len()).
func (b *Buffer) TimeToSample(t float64) int {
	return int(math.Round(t * b.sampleRate))
}
