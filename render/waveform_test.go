package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-scope/audio"
)

func TestNewWaveform_Pyramid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		samples int
		chunks  int
	}{
		{2, 1},
		{128, 1},
		{256, 2},
		{300, 3},
	}
	for _, tt := range tests {
		samples := make([]float32, tt.samples)
		for i := range samples {
			samples[i] = float32(i)
		}
		buf, err := audio.NewBuffer(samples, 1000)
		if err != nil {
			t.Fatalf("NewBuffer() error = %v", err)
		}
		w := NewWaveform(buf)
		if len(w.pyramid) != tt.chunks {
			t.Errorf("%d samples: %d chunks, want %d", tt.samples, len(w.pyramid), tt.chunks)
			continue
		}
		last := w.pyramid[len(w.pyramid)-1]
		if want := float32(tt.samples - 1); last.hi != want {
			t.Errorf("%d samples: last chunk max = %v, want %v", tt.samples, last.hi, want)
		}
		if want := float32((tt.chunks - 1) * ChunkSize); last.lo != want {
			t.Errorf("%d samples: last chunk min = %v, want %v", tt.samples, last.lo, want)
		}
	}
}

func TestWaveform_ChunkAndSamplePathsAgree(t *testing.T) {
	t.Parallel()

	const rate = 8192.0
	samples := make([]float32, 8192)
	for i := range samples {
		ft := float64(i) / rate
		samples[i] = float32(0.7*math.Sin(2*math.Pi*37*ft) + 0.2*math.Sin(2*math.Pi*411*ft))
	}
	buf, err := audio.NewBuffer(samples, rate)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	w := NewWaveform(buf)

	// 32 columns over one second puts each column right at the threshold,
	// 256 samples, two whole chunks
	const width, height = 32, 100
	spp := rate / width
	for x := range width {
		start := float64(x) * spp
		fromSamples := w.sampleSpan(start, start+spp, height)
		fromChunks := w.chunkSpan(start, start+spp, height)
		if !fromSamples.Painted || !fromChunks.Painted {
			t.Fatalf("column %d: painted = %v/%v, want true", x, fromSamples.Painted, fromChunks.Painted)
		}
		if absInt(fromSamples.Y0-fromChunks.Y0) > 1 || absInt(fromSamples.Y1-fromChunks.Y1) > 1 {
			t.Errorf("column %d: sample span %+v, chunk span %+v", x, fromSamples, fromChunks)
		}
	}

	// twice as wide a time range per column takes the chunk path
	cols := w.Columns(0, 1, width/2, height)
	for x, got := range cols {
		start := float64(x) * 2 * spp
		if want := w.sampleSpan(start, start+2*spp, height); got != want {
			t.Errorf("zoomed out column %d = %+v, want %+v", x, got, want)
		}
	}
}

func TestWaveform_ChunkPathReadsShortTrailingChunk(t *testing.T) {
	t.Parallel()

	// 1030 samples leave a 6-sample final chunk holding the only peak
	samples := make([]float32, 1030)
	samples[1029] = 0.9
	buf, err := audio.NewBuffer(samples, 1030)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	w := NewWaveform(buf)
	if len(w.pyramid) != 9 {
		t.Fatalf("pyramid has %d chunks, want 9", len(w.pyramid))
	}

	const height = 100
	cols := w.Columns(0, 1, 2, height)
	if want := (Span{Y0: 50, Y1: 95, Painted: true}); cols[1] != want {
		t.Errorf("last column = %+v, want %+v", cols[1], want)
	}
	if want := w.sampleSpan(515, 1030, height); cols[1] != want {
		t.Errorf("chunk path = %+v, sample path = %+v", cols[1], want)
	}
	if want := (Span{Y0: 50, Y1: 50, Painted: true}); cols[0] != want {
		t.Errorf("first column = %+v, want %+v", cols[0], want)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestWaveform_RenderPaintsAboveCentre(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = 0.5
	}
	buf, err := audio.NewBuffer(samples, 100)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	w := NewWaveform(buf)
	fg := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	w.SetStyle(WaveformStyle{Foreground: fg})

	// y = round(0.5*5 + 5) = 8 from the bottom, row 1 from the top
	img := w.Render(0, 1, 10, 10)
	for x := range 10 {
		for y := range 10 {
			got := img.RGBAAt(x, y)
			want := color.RGBA{}
			if y == 1 {
				want = fg
			}
			if got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestWaveform_ClampsToHeight(t *testing.T) {
	t.Parallel()

	buf, err := audio.NewBuffer([]float32{-4, 4, -4, 4}, 4)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	spans := NewWaveform(buf).Columns(0, 1, 1, 8)
	if want := (Span{Y0: 0, Y1: 7, Painted: true}); spans[0] != want {
		t.Errorf("Columns() = %+v, want %+v", spans[0], want)
	}
}

func TestWaveform_EmptyRangesPaintNothing(t *testing.T) {
	t.Parallel()

	w := NewWaveform(sineBuffer(t, 10, 1000, 1000))
	for _, tr := range [][2]float64{{-2, -1}, {5, 6}, {-50, -40}, {20, 30}} {
		for x, span := range w.Columns(tr[0], tr[1], 16, 32) {
			if span.Painted {
				t.Errorf("time %v column %d painted %+v, want nothing", tr, x, span)
			}
		}
	}
	img := w.Render(5, 6, 4, 4)
	for i, b := range img.Pix {
		if b != 0 {
			t.Fatalf("Pix[%d] = %d, want transparent", i, b)
		}
	}
}

func TestWaveform_PanicsOnFlatHeight(t *testing.T) {
	t.Parallel()

	w := NewWaveform(sineBuffer(t, 10, 1000, 1000))
	defer func() {
		if recover() == nil {
			t.Error("Render() with height 1 did not panic")
		}
	}()
	w.Render(0, 1, 10, 1)
}
