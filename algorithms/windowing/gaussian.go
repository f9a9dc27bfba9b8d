package windowing

import (
	"fmt"
	"math"
)

// Gaussian represents a Gaussian (bell) window centered on n/2.
// sigma is relative to the half-width, so 0.2 puts one standard
// deviation at a fifth of the way from the center to either edge.
type Gaussian struct {
	size         int
	sigma        float64
	coefficients []float64
}

// NewGaussian creates a new Gaussian window
func NewGaussian(size int, sigma float64) *Gaussian {
	g := &Gaussian{
		size:  size,
		sigma: sigma,
	}
	g.generate()
	return g
}

// GaussianWindow returns the coefficients of an n-point Gaussian window:
// w[i] = exp(-0.5 * ((i - n/2) / (sigma * n/2))^2)
func GaussianWindow(n int, sigma float64) []float64 {
	w := make([]float64, n)
	half := float64(n) / 2
	for i := range w {
		x := (float64(i) - half) / (sigma * half)
		w[i] = math.Exp(-0.5 * x * x)
	}
	return w
}

func (g *Gaussian) generate() {
	g.coefficients = GaussianWindow(g.size, g.sigma)
}

// Apply applies the window to a signal (creates new array)
func (g *Gaussian) Apply(signal []float64) []float64 {
	if len(signal) != g.size {
		return nil
	}

	windowed := make([]float64, g.size)
	for i, c := range g.coefficients {
		windowed[i] = signal[i] * c
	}
	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (g *Gaussian) ApplyInPlace(signal []float64) error {
	if len(signal) != g.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), g.size)
	}

	for i, c := range g.coefficients {
		signal[i] *= c
	}
	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (g *Gaussian) GetCoefficients() []float64 {
	coeffs := make([]float64, len(g.coefficients))
	copy(coeffs, g.coefficients)
	return coeffs
}

// GetSize returns the window size
func (g *Gaussian) GetSize() int {
	return g.size
}

// GetSigma returns the relative standard deviation
func (g *Gaussian) GetSigma() float64 {
	return g.sigma
}

// GetType returns the window type
func (g *Gaussian) GetType() string {
	return "gaussian"
}
