package colormap

import (
	"fmt"
	"image/color"
	"math"
)

// DefaultTableSize is enough entries that neighbouring colors differ by
// less than one 8-bit step on the built-in gradients
const DefaultTableSize = 1024

// Table is a gradient sampled at evenly spaced points, for per-pixel lookups
type Table struct {
	colors []color.RGBA
	hex    []string
}

// Table samples g at n points spanning [0,1]
func (g *Gradient) Table(n int) *Table {
	if n < 2 {
		panic(fmt.Sprintf("colormap: table needs at least 2 entries, got %d", n))
	}
	colors := make([]color.RGBA, n)
	hex := make([]string, n)
	last := float64(n - 1)
	for i := range colors {
		c := g.Eval(float64(i) / last)
		colors[i] = c
		hex[i] = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return &Table{colors: colors, hex: hex}
}

// DefaultTable returns a DefaultTableSize table of g, built on first use
func (g *Gradient) DefaultTable() *Table {
	g.tableOnce.Do(func() {
		g.table = g.Table(DefaultTableSize)
	})
	return g.table
}

// Len returns the number of entries
func (tb *Table) Len() int {
	return len(tb.colors)
}

// Index returns the position of the entry nearest t. t is clamped into
// [0,1]; NaN maps to 0.
func (tb *Table) Index(t float64) int {
	switch {
	case math.IsNaN(t) || t <= 0:
		return 0
	case t >= 1:
		return len(tb.colors) - 1
	}
	return int(math.Round(t * float64(len(tb.colors)-1)))
}

// Lookup returns the entry nearest t
func (tb *Table) Lookup(t float64) color.RGBA {
	return tb.colors[tb.Index(t)]
}

// Hex returns the entry nearest t as "#rrggbb"
func (tb *Table) Hex(t float64) string {
	return tb.hex[tb.Index(t)]
}

// HexAt returns entry i as "#rrggbb"
func (tb *Table) HexAt(i int) string {
	return tb.hex[i]
}
