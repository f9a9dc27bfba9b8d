package render

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/sonido-scope/colormap"
)

func TestNewTile_StartsSilent(t *testing.T) {
	t.Parallel()

	tile := NewTile(3, 2)
	if len(tile.Values()) != 6 {
		t.Fatalf("len(Values()) = %d, want 6", len(tile.Values()))
	}
	for i, v := range tile.Values() {
		if !isSilent(v) {
			t.Errorf("cell %d = %v, want -Inf", i, v)
		}
	}

	tile.Set(2, 1, -30)
	if got := tile.At(2, 1); got != -30 {
		t.Errorf("At(2,1) = %v, want -30", got)
	}
	if got := tile.Row(1)[2]; got != -30 {
		t.Errorf("Row(1)[2] = %v, want -30", got)
	}
}

func TestNewTileFromValues(t *testing.T) {
	t.Parallel()

	values := []float32{1, 2, 3, 4, 5, 6}
	tile := NewTileFromValues(2, values)
	if tile.Height != 3 {
		t.Errorf("Height = %d, want 3", tile.Height)
	}
	if got := tile.At(1, 2); got != 6 {
		t.Errorf("At(1,2) = %v, want 6", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("NewTileFromValues() with ragged rows did not panic")
		}
	}()
	NewTileFromValues(4, values)
}

func TestTile_Render(t *testing.T) {
	t.Parallel()

	tile := NewTileFromValues(4, []float32{float32(math.Inf(-1)), -80, -20, 0})
	img := tile.Render(-80, -20)
	lo, hi := colormap.Inferno.Endpoints()

	tests := []struct {
		x    int
		want [4]uint8
	}{
		{0, [4]uint8{lo.R, lo.G, lo.B, 255}},
		{1, [4]uint8{lo.R, lo.G, lo.B, 255}},
		{2, [4]uint8{hi.R, hi.G, hi.B, 255}},
		{3, [4]uint8{hi.R, hi.G, hi.B, 255}},
	}
	for _, tt := range tests {
		c := img.RGBAAt(tt.x, 0)
		if got := [4]uint8{c.R, c.G, c.B, c.A}; got != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, got, tt.want)
		}
	}

	img = tile.RenderWith(colormap.Viridis, -80, -20)
	vlo, _ := colormap.Viridis.Endpoints()
	if got := img.RGBAAt(0, 0); got != vlo {
		t.Errorf("viridis silent pixel = %v, want %v", got, vlo)
	}
}

func TestTile_Levels(t *testing.T) {
	t.Parallel()

	if _, _, ok := NewTile(4, 4).Levels(0.05, 0.95); ok {
		t.Error("Levels() on a silent tile: ok = true, want false")
	}

	values := make([]float32, 101)
	for i := range values {
		values[i] = float32(i - 100)
	}
	values[0] = float32(math.Inf(-1))
	lo, hi, ok := NewTileFromValues(101, values).Levels(0, 1)
	if !ok || lo != -99 || hi != 0 {
		t.Errorf("Levels(0, 1) = %v, %v, %v, want -99, 0, true", lo, hi, ok)
	}

	lo, hi, ok = NewTileFromValues(2, []float32{-40, -40}).Levels(0.1, 0.9)
	if !ok || lo != -40 || hi != -39 {
		t.Errorf("Levels() on flat tile = %v, %v, %v, want -40, -39, true", lo, hi, ok)
	}
}

func TestWritePNG(t *testing.T) {
	t.Parallel()

	img := NewTileFromValues(3, []float32{-80, -50, -20, -20, -50, -80}).Render(-80, -20)
	var out bytes.Buffer
	if err := WritePNG(&out, img); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	decoded, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got := decoded.Bounds(); got != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", got, img.Bounds())
	}

	path := filepath.Join(t.TempDir(), "tile.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("SavePNG() wrote %v, %v", info, err)
	}
}
