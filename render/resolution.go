package render

import (
	"fmt"

	"github.com/RyanBlaney/sonido-scope/algorithms/spectral"
	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/logging"
)

// RequiredSampleRate is the lowest rate that represents pitchMax plus one
// semitone of headroom without aliasing
func RequiredSampleRate(pitchMax float64) float64 {
	return 2 * spectral.PitchToFreq(pitchMax+1)
}

// SelectResolution picks the cheapest level whose sample rate covers pitchMax,
// trying quarter, then half, then full rate. A rate exactly equal to the
// requirement is sufficient. Full is returned when no lower level qualifies.
func SelectResolution(pitchMax float64, rates [audio.NumResolutions]float64) audio.Resolution {
	need := RequiredSampleRate(pitchMax)
	for _, r := range []audio.Resolution{audio.Quarter, audio.Half} {
		if need <= rates[r] {
			return r
		}
	}
	return audio.Full
}

// MultiResolution holds one Spectrogram per level of a Preprocessed buffer and
// renders through the cheapest one that can show the requested pitch range
type MultiResolution struct {
	engines [audio.NumResolutions]*Spectrogram
	rates   [audio.NumResolutions]float64
	last    audio.Resolution

	logger logging.Logger
}

// NewMultiResolution builds the three engines, all with the same window size
func NewMultiResolution(p *audio.Preprocessed, fftSize int, sigma float64) (*MultiResolution, error) {
	m := &MultiResolution{
		rates: p.Rates(),
		logger: logging.WithFields(logging.Fields{
			"component": "multi_resolution",
		}),
	}
	for _, r := range []audio.Resolution{audio.Full, audio.Half, audio.Quarter} {
		engine, err := NewSpectrogram(p.Level(r), fftSize, sigma)
		if err != nil {
			return nil, fmt.Errorf("%s-rate engine: %w", r, err)
		}
		m.engines[r] = engine
	}
	return m, nil
}

// Engine returns the engine for level r
func (m *MultiResolution) Engine(r audio.Resolution) *Spectrogram {
	return m.engines[r]
}

// LastResolution reports the level used by the most recent Render
func (m *MultiResolution) LastResolution() audio.Resolution {
	return m.last
}

// Render selects a level for pitchMax and renders through it
func (m *MultiResolution) Render(width, height int, pitchMin, pitchMax, timeStart, timeEnd float64) *Tile {
	r := SelectResolution(pitchMax, m.rates)
	if r != m.last {
		m.logger.Debug("Switched resolution", logging.Fields{
			"from":      m.last.String(),
			"to":        r.String(),
			"pitch_max": pitchMax,
		})
	}
	m.last = r
	return m.engines[r].Render(width, height, pitchMin, pitchMax, timeStart, timeEnd)
}
