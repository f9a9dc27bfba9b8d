// Package render turns audio buffers into pixels: min/max waveform plots,
// log-frequency spectrogram tiles and the colormapped images built from them.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-scope/algorithms/spectral"
	"github.com/RyanBlaney/sonido-scope/algorithms/windowing"
	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/logging"
)

var (
	ErrInvalidFFTSize = errors.New("fft size must be at least 2")
	ErrInvalidSigma   = errors.New("gaussian sigma must be positive")
)

// Spectrogram renders log-frequency spectrogram tiles from one buffer.
// It reuses its transform workspace across calls, so a Spectrogram must not
// be rendered from two goroutines at once. Use one per worker.
type Spectrogram struct {
	buf    *audio.Buffer
	window *windowing.Gaussian

	transform *spectral.RealTransform
	input     []float64
	output    []complex128

	logger logging.Logger
}

// NewSpectrogram creates an engine with a Gaussian window of fftSize points
func NewSpectrogram(buf *audio.Buffer, fftSize int, sigma float64) (*Spectrogram, error) {
	if fftSize < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFFTSize, fftSize)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSigma, sigma)
	}

	window := windowing.NewGaussian(fftSize, sigma)
	transform := spectral.NewRealTransform(fftSize)
	s := &Spectrogram{
		buf:       buf,
		window:    window,
		transform: transform,
		input:     transform.MakeInput(),
		output:    transform.MakeOutput(),
		logger: logging.WithFields(logging.Fields{
			"component": "spectrogram",
		}),
	}

	s.logger.Debug("Created spectrogram engine", logging.Fields{
		"fft_size":    fftSize,
		"sigma":       sigma,
		"sample_rate": buf.SampleRate(),
		"samples":     buf.Len(),
	})
	return s, nil
}

// FFTSize returns the transform length
func (s *Spectrogram) FFTSize() int {
	return s.transform.Size()
}

// Sigma returns the Gaussian window width
func (s *Spectrogram) Sigma() float64 {
	return s.window.GetSigma()
}

// Buffer returns the buffer the engine reads from
func (s *Spectrogram) Buffer() *audio.Buffer {
	return s.buf
}

// frame holds the per-render mapping from pixels to samples and bins
type frame struct {
	width, height int

	timeStart float64
	xToTime   float64

	lnFreqMax  float64
	yToLnFreq  float64
	lnBinScale float64
}

func (s *Spectrogram) newFrame(width, height int, pitchMin, pitchMax, timeStart, timeEnd float64) frame {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("render: spectrogram size must be positive, got %dx%d", width, height))
	}
	lnFreqMin := math.Log(spectral.PitchToFreq(pitchMin))
	lnFreqMax := math.Log(spectral.PitchToFreq(pitchMax))
	return frame{
		width:      width,
		height:     height,
		timeStart:  timeStart,
		xToTime:    (timeEnd - timeStart) / float64(width),
		lnFreqMax:  lnFreqMax,
		yToLnFreq:  (lnFreqMax - lnFreqMin) / float64(height),
		lnBinScale: math.Log(float64(len(s.output)) / (s.buf.SampleRate() / 2)),
	}
}

// bucket returns the spectrum index shown on row y. Row 0 is pitchMax.
func (f *frame) bucket(y int) int {
	return int(math.Round(math.Exp(f.lnFreqMax - float64(y)*f.yToLnFreq + f.lnBinScale)))
}

// sample returns the buffer index shown in column x
func (f *frame) sample(x int, rate float64) int {
	return int(math.Round((f.timeStart + float64(x)*f.xToTime) * rate))
}

// Render computes a width x height tile spanning [pitchMin, pitchMax] bottom
// to top and [timeStart, timeEnd) left to right. Columns whose time falls
// outside the buffer, and rows whose frequency is past Nyquist, stay -Inf.
func (s *Spectrogram) Render(width, height int, pitchMin, pitchMax, timeStart, timeEnd float64) *Tile {
	f := s.newFrame(width, height, pitchMin, pitchMax, timeStart, timeEnd)
	tile := NewTile(width, height)
	s.renderColumns(&f, tile, 0, width)
	return tile
}

// renderColumns fills columns [x0, x1) of tile
func (s *Spectrogram) renderColumns(f *frame, tile *Tile, x0, x1 int) {
	for x := x0; x < x1; x++ {
		s.renderColumn(f, tile, x)
	}
}

func (s *Spectrogram) renderColumn(f *frame, tile *Tile, x int) {
	sample := f.sample(x, s.buf.SampleRate())
	if sample < 0 || sample >= s.buf.Len() {
		return
	}
	s.transformAt(sample)

	count := s.buf.Len()
	for y := range f.height {
		bucket := f.bucket(y)
		if bucket < 0 || bucket >= len(s.output) {
			continue
		}
		tile.Set(x, y, spectral.PowerDB(s.output[bucket], count))
	}
}

// transformAt fills the output workspace with the windowed spectrum
// centered on sample
func (s *Spectrogram) transformAt(sample int) {
	windowing.CopyCentered(sample, s.buf.Samples(), s.input)
	if err := s.window.ApplyInPlace(s.input); err != nil {
		panic(fmt.Sprintf("render: %v", err))
	}
	s.transform.Forward(s.input, s.output)
}
