package spectral

import (
	"math"
)

// Power returns the squared magnitude of a spectral coefficient
func Power(c complex128) float64 {
	re, im := real(c), imag(c)
	return re*re + im*im
}

// PowerDB converts a coefficient to decibels normalized by the length of the
// signal it was taken from, so that long and short buffers read the same level:
//
//	10*log10(|c|^2) - 10*log10(sampleCount)
//
// Zero power yields -Inf.
func PowerDB(c complex128, sampleCount int) float32 {
	return float32(10*math.Log10(Power(c)) - 10*math.Log10(float64(sampleCount)))
}

// PowerSpectrumDB fills dst with PowerDB of each coefficient in spectrum
func PowerSpectrumDB(dst []float32, spectrum []complex128, sampleCount int) []float32 {
	if dst == nil {
		dst = make([]float32, len(spectrum))
	}
	norm := 10 * math.Log10(float64(sampleCount))
	for i, c := range spectrum {
		dst[i] = float32(10*math.Log10(Power(c)) - norm)
	}
	return dst
}
