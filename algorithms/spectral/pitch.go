package spectral

import "math"

// Equal-tempered pitch numbering, MIDI style: 69 is A4.
const (
	ReferencePitch = 69.0
	ReferenceFreq  = 440.0
)

// PitchToFreq converts a (fractional) pitch number to Hz
func PitchToFreq(pitch float64) float64 {
	return math.Pow(2, (pitch-ReferencePitch)/12) * ReferenceFreq
}

// FreqToPitch converts Hz to a fractional pitch number
func FreqToPitch(freq float64) float64 {
	return math.Log2(freq/ReferenceFreq)*12 + ReferencePitch
}
