package audio

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-scope/algorithms/common"
	"github.com/RyanBlaney/sonido-scope/algorithms/spectral"
	"github.com/RyanBlaney/sonido-scope/logging"
)

// Resolution tags one level of a Preprocessed pyramid
type Resolution int

const (
	Full Resolution = iota
	Half
	Quarter
)

// NumResolutions is the number of pyramid levels
const NumResolutions = 3

// smallest transform used for preprocessing, so the quarter-rate inverse
// still has more than one point
const minPreprocessFFTSize = 8

// Divisor returns the sample-rate divisor of the level
func (r Resolution) Divisor() int {
	switch r {
	case Half:
		return 2
	case Quarter:
		return 4
	default:
		return 1
	}
}

func (r Resolution) String() string {
	switch r {
	case Full:
		return "full"
	case Half:
		return "half"
	case Quarter:
		return "quarter"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// Preprocessed is a buffer together with its half- and quarter-rate copies
type Preprocessed struct {
	Full    *Buffer
	Half    *Buffer
	Quarter *Buffer
}

// NewPreprocessed builds the full-rate buffer from samples and derives the lower levels
func NewPreprocessed(samples []float32, sampleRate float64) (*Preprocessed, error) {
	full, err := NewBuffer(samples, sampleRate)
	if err != nil {
		return nil, err
	}
	return Preprocess(full)
}

// Preprocess derives half- and quarter-rate buffers from full by spectral
// truncation: one forward transform over the zero-padded signal, then for each
// level an inverse transform of only the low end of the spectrum. Dropping the
// upper bins is the anti-aliasing filter; samples are never simply discarded.
//
// The derived levels hold ceil((n+1)/2) and ceil((n+1)/4) samples, with a
// floor of two samples for very short inputs.
func Preprocess(full *Buffer) (*Preprocessed, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "preprocessor",
		"function":  "Preprocess",
	})

	n := full.Len()
	fftSize := max(common.NextPowerOfTwo(n), minPreprocessFFTSize)

	tr := spectral.NewRealTransform(fftSize)
	in := tr.MakeInput()
	for i, s := range full.samples {
		in[i] = float64(s)
	}
	spectrum := tr.MakeOutput()
	tr.Forward(in, spectrum)
	forwardNorm := 1 / math.Sqrt(float64(fftSize))

	logger.Debug("Forward transform complete", logging.Fields{
		"samples":  n,
		"fft_size": fftSize,
	})

	// the two inverses only read the shared spectrum
	var half, quarter []float32
	g := new(errgroup.Group)
	g.Go(func() error {
		half = truncateSpectrum(spectrum, fftSize, Half.Divisor(), n, forwardNorm)
		return nil
	})
	g.Go(func() error {
		quarter = truncateSpectrum(spectrum, fftSize, Quarter.Divisor(), n, forwardNorm)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	halfBuf, err := newOwnedBuffer(half, full.sampleRate/float64(Half.Divisor()))
	if err != nil {
		return nil, fmt.Errorf("half-rate level: %w", err)
	}
	quarterBuf, err := newOwnedBuffer(quarter, full.sampleRate/float64(Quarter.Divisor()))
	if err != nil {
		return nil, fmt.Errorf("quarter-rate level: %w", err)
	}

	logger.Debug("Derived lower resolutions", logging.Fields{
		"half_samples":    halfBuf.Len(),
		"quarter_samples": quarterBuf.Len(),
	})

	return &Preprocessed{Full: full, Half: halfBuf, Quarter: quarterBuf}, nil
}

// truncateSpectrum keeps bins 0..(len(spectrum)-1)/divisor, inverse transforms
// them at fftSize/divisor points and trims the padding off the result.
func truncateSpectrum(spectrum []complex128, fftSize, divisor, sampleCount int, forwardNorm float64) []float32 {
	size := fftSize / divisor
	tr := spectral.NewRealTransform(size)

	kept := tr.MakeOutput()
	copy(kept, spectrum[:(len(spectrum)-1)/divisor+1])

	seq := tr.MakeInput()
	tr.Inverse(kept, seq)
	common.ScaleInPlace(forwardNorm/math.Sqrt(float64(size)), seq)

	outLen := max(common.CeilDiv(sampleCount+1, divisor), 2)
	out := make([]float32, outLen)
	for i := 0; i < outLen && i < len(seq); i++ {
		out[i] = float32(seq[i])
	}
	return out
}

// Level returns the buffer for resolution r
func (p *Preprocessed) Level(r Resolution) *Buffer {
	switch r {
	case Half:
		return p.Half
	case Quarter:
		return p.Quarter
	default:
		return p.Full
	}
}

// Rates returns the sample rate of every level, indexed by Resolution
func (p *Preprocessed) Rates() [NumResolutions]float64 {
	return [NumResolutions]float64{
		Full:    p.Full.SampleRate(),
		Half:    p.Half.SampleRate(),
		Quarter: p.Quarter.SampleRate(),
	}
}
