package render

import (
	"fmt"
	"image"
	"math"

	"github.com/RyanBlaney/sonido-scope/algorithms/common"
	"github.com/RyanBlaney/sonido-scope/colormap"
)

// Tile is a width x height grid of dB figures in row-major order, row 0 at
// the top. Every cell holds either a finite value or -Inf for silence.
type Tile struct {
	Width  int
	Height int
	values []float32
}

// NewTile allocates a tile with every cell set to -Inf
func NewTile(width, height int) *Tile {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("render: negative tile size %dx%d", width, height))
	}
	values := make([]float32, width*height)
	silence := float32(math.Inf(-1))
	for i := range values {
		values[i] = silence
	}
	return &Tile{Width: width, Height: height, values: values}
}

// NewTileFromValues wraps values without copying. The tile owns the slice
// from then on.
func NewTileFromValues(width int, values []float32) *Tile {
	if width <= 0 || len(values)%width != 0 {
		panic(fmt.Sprintf("render: %d values do not form rows of width %d", len(values), width))
	}
	return &Tile{Width: width, Height: len(values) / width, values: values}
}

// Values returns the backing slice, handing ownership to the caller
func (t *Tile) Values() []float32 {
	return t.values
}

// At returns the value at column x, row y
func (t *Tile) At(x, y int) float32 {
	return t.values[y*t.Width+x]
}

// Set stores v at column x, row y
func (t *Tile) Set(x, y int, v float32) {
	t.values[y*t.Width+x] = v
}

// Row returns row y as a slice of the backing store
func (t *Tile) Row(y int) []float32 {
	return t.values[y*t.Width : (y+1)*t.Width]
}

// Render colors the tile with the default gradient
func (t *Tile) Render(dbMin, dbMax float32) *image.RGBA {
	return t.RenderWith(colormap.Default(), dbMin, dbMax)
}

// RenderWith colors the tile with g
func (t *Tile) RenderWith(g *colormap.Gradient, dbMin, dbMax float32) *image.RGBA {
	return t.renderTable(g.DefaultTable(), dbMin, dbMax)
}

func (t *Tile) renderTable(tb *colormap.Table, dbMin, dbMax float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	span := float64(dbMax - dbMin)
	for i, v := range t.values {
		c := tb.Lookup((float64(v) - float64(dbMin)) / span)
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	return img
}

// Levels picks a dB range from the lowQ and highQ quantiles of the finite
// cells. ok is false when the tile is entirely silent.
func (t *Tile) Levels(lowQ, highQ float64) (dbMin, dbMax float32, ok bool) {
	qs, ok := common.FiniteQuantiles(t.values, lowQ, highQ)
	if !ok {
		return 0, 0, false
	}
	dbMin, dbMax = float32(qs[0]), float32(qs[1])
	if dbMax <= dbMin {
		dbMax = dbMin + 1
	}
	return dbMin, dbMax, true
}
