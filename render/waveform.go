package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/RyanBlaney/sonido-scope/algorithms/common"
	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/logging"
)

// ChunkSize is the number of samples summarized by one pyramid entry
const ChunkSize = 128

type minMax struct {
	lo, hi float32
}

func (m minMax) union(o minMax) minMax {
	return minMax{lo: min(m.lo, o.lo), hi: max(m.hi, o.hi)}
}

// WaveformStyle controls how painted pixels look
type WaveformStyle struct {
	Foreground color.RGBA `json:"foreground"`
}

// DefaultWaveformStyle paints light grey on a transparent background
func DefaultWaveformStyle() WaveformStyle {
	return WaveformStyle{Foreground: color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}}
}

// Span is the painted vertical extent of one column, in amplitude-up pixel
// coordinates: 0 is the bottom row. Columns with no samples are not Painted.
type Span struct {
	Y0, Y1  int
	Painted bool
}

// Waveform draws min/max line plots of a buffer. Far zoomed out it reads
// per-chunk summaries instead of scanning every sample of every column.
type Waveform struct {
	buf     *audio.Buffer
	pyramid []minMax
	style   WaveformStyle
}

// NewWaveform summarizes buf into ChunkSize-sample min/max pairs. A trailing
// partial chunk gets its own pair.
func NewWaveform(buf *audio.Buffer) *Waveform {
	samples := buf.Samples()
	pyramid := make([]minMax, 0, common.CeilDiv(len(samples), ChunkSize))
	for i := 0; i < len(samples); i += ChunkSize {
		lo, hi, _ := common.MinMax32(samples[i:min(i+ChunkSize, len(samples))])
		pyramid = append(pyramid, minMax{lo: lo, hi: hi})
	}

	logging.Debug("Built waveform pyramid", logging.Fields{
		"component": "waveform",
		"samples":   len(samples),
		"chunks":    len(pyramid),
	})

	return &Waveform{buf: buf, pyramid: pyramid, style: DefaultWaveformStyle()}
}

// SetStyle changes the paint used by Render
func (w *Waveform) SetStyle(style WaveformStyle) {
	w.style = style
}

// Buffer returns the buffer the waveform reads from
func (w *Waveform) Buffer() *audio.Buffer {
	return w.buf
}

// Columns computes the painted span of each of width columns covering
// [timeStart, timeEnd) at the given height
func (w *Waveform) Columns(timeStart, timeEnd float64, width, height int) []Span {
	if width <= 0 || height <= 1 {
		panic(fmt.Sprintf("render: waveform needs width > 0 and height > 1, got %dx%d", width, height))
	}

	rate := w.buf.SampleRate()
	samplesPerPixel := (timeEnd - timeStart) / float64(width) * rate
	first := timeStart * rate

	spanAt := w.sampleSpan
	if samplesPerPixel > 2*ChunkSize {
		spanAt = w.chunkSpan
	}

	spans := make([]Span, width)
	for x := range spans {
		start := first + float64(x)*samplesPerPixel
		spans[x] = spanAt(start, start+samplesPerPixel, height)
	}
	return spans
}

// sampleSpan scans the raw samples in [start, end)
func (w *Waveform) sampleSpan(start, end float64, height int) Span {
	samples := w.buf.Samples()
	lo, hi := roundedRange(start, end, len(samples))
	if lo >= hi {
		return Span{}
	}
	vlo, vhi, _ := common.MinMax32(samples[lo:hi])
	return spanOf(minMax{lo: vlo, hi: vhi}, height)
}

// chunkSpan merges the pyramid entries of every chunk that [start, end)
// touches, including a short trailing chunk
func (w *Waveform) chunkSpan(start, end float64, height int) Span {
	n := len(w.pyramid)
	lo := common.ClampInt(int(math.Floor(start/ChunkSize)), 0, n)
	hi := common.ClampInt(int(math.Ceil(end/ChunkSize)), 0, n)
	if lo >= hi {
		return Span{}
	}
	acc := w.pyramid[lo]
	for _, m := range w.pyramid[lo+1 : hi] {
		acc = acc.union(m)
	}
	return spanOf(acc, height)
}

func roundedRange(start, end float64, n int) (lo, hi int) {
	lo = common.ClampInt(int(math.Round(start)), 0, n)
	hi = common.ClampInt(int(math.Round(end)), 0, n)
	return lo, hi
}

func spanOf(m minMax, height int) Span {
	return Span{Y0: amplitudeRow(m.lo, height), Y1: amplitudeRow(m.hi, height), Painted: true}
}

// amplitudeRow maps a sample value to a row counted from the bottom
func amplitudeRow(v float32, height int) int {
	half := float64(height) / 2
	return common.ClampInt(int(math.Round(float64(v)*half+half)), 0, height-1)
}

// Render draws the waveform into a width x height image. Painted pixels use
// the style's foreground; everything else is transparent. Positive amplitude
// is drawn above the centre line.
func (w *Waveform) Render(timeStart, timeEnd float64, width, height int) *image.RGBA {
	spans := w.Columns(timeStart, timeEnd, width, height)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fg := w.style.Foreground
	for x, span := range spans {
		if !span.Painted {
			continue
		}
		for y := span.Y0; y <= span.Y1; y++ {
			img.SetRGBA(x, height-1-y, fg)
		}
	}
	return img
}
