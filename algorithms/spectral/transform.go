package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// RealTransform is a fixed-size real-input DFT built on gonum's FFT plan.
// The plan carries its own work arrays, so a RealTransform must only be
// used from one goroutine at a time. Input and output buffers are owned by
// the caller and reused across calls.
type RealTransform struct {
	size int
	plan *fourier.FFT
}

// NewRealTransform creates a transform for sequences of the given length
func NewRealTransform(size int) *RealTransform {
	if size < 1 {
		panic(fmt.Sprintf("spectral: transform size must be positive, got %d", size))
	}
	return &RealTransform{
		size: size,
		plan: fourier.NewFFT(size),
	}
}

// Size returns the time-domain length
func (t *RealTransform) Size() int {
	return t.size
}

// SpectrumLen returns the number of frequency bins (size/2 + 1)
func (t *RealTransform) SpectrumLen() int {
	return t.size/2 + 1
}

// MakeInput allocates a time-domain buffer of the right length
func (t *RealTransform) MakeInput() []float64 {
	return make([]float64, t.size)
}

// MakeOutput allocates a frequency-domain buffer of the right length
func (t *RealTransform) MakeOutput() []complex128 {
	return make([]complex128, t.SpectrumLen())
}

// Forward computes the unnormalized spectrum of in into out.
// in is not modified.
func (t *RealTransform) Forward(in []float64, out []complex128) {
	if len(in) != t.size || len(out) != t.SpectrumLen() {
		panic(fmt.Sprintf("spectral: forward transform of size %d got input %d, output %d",
			t.size, len(in), len(out)))
	}
	t.plan.Coefficients(out, in)
}

// Inverse computes the unnormalized real sequence of the spectrum in into out.
// A Forward followed by Inverse scales the original sequence by Size().
func (t *RealTransform) Inverse(in []complex128, out []float64) {
	if len(in) != t.SpectrumLen() || len(out) != t.size {
		panic(fmt.Sprintf("spectral: inverse transform of size %d got input %d, output %d",
			t.size, len(in), len(out)))
	}
	t.plan.Sequence(out, in)
}
