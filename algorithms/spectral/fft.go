package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides one-shot Fourier transforms over whole signals using mjibson/go-dsp.
// It allocates per call; RealTransform is the reusable counterpart for hot loops.
type FFT struct {
	// stateless
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the full complex spectrum of x.
// go-dsp handles non-power-of-2 lengths.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// ComputeInverseReal computes the inverse FFT and returns the real part only
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))
	for i, val := range result {
		realResult[i] = real(val)
	}
	return realResult
}

// DominantBin returns the index of the strongest non-DC bin in the lower half
// of the spectrum of samples, along with the transform length used.
func (f *FFT) DominantBin(samples []float32) (bin, n int) {
	n = len(samples)
	if n < 2 {
		return 0, n
	}

	x := make([]float64, n)
	for i, s := range samples {
		x[i] = float64(s)
	}
	spectrum := f.Compute(x)

	best := 0.0
	for k := 1; k <= n/2; k++ {
		if mag := cmplx.Abs(spectrum[k]); mag > best {
			best = mag
			bin = k
		}
	}
	return bin, n
}

// DominantFrequency returns the frequency in Hz of the strongest spectral peak
// of samples. The resolution is sampleRate/len(samples).
func (f *FFT) DominantFrequency(samples []float32, sampleRate float64) float64 {
	bin, n := f.DominantBin(samples)
	if n == 0 {
		return 0
	}
	return float64(bin) * sampleRate / float64(n)
}
