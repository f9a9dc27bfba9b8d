package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestGradient_Endpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		g      *Gradient
		lo, hi color.RGBA
	}{
		{Inferno, color.RGBA{0x00, 0x00, 0x04, 0xff}, color.RGBA{0xfc, 0xff, 0xa4, 0xff}},
		{Magma, color.RGBA{0x00, 0x00, 0x04, 0xff}, color.RGBA{0xfc, 0xfd, 0xbf, 0xff}},
		{Viridis, color.RGBA{0x44, 0x01, 0x54, 0xff}, color.RGBA{0xfd, 0xe7, 0x25, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.g.Name(), func(t *testing.T) {
			t.Parallel()
			if got := tt.g.Eval(0); got != tt.lo {
				t.Errorf("Eval(0) = %v, want %v", got, tt.lo)
			}
			if got := tt.g.Eval(1); got != tt.hi {
				t.Errorf("Eval(1) = %v, want %v", got, tt.hi)
			}
		})
	}
}

func TestInferno_MonotonicLightness(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for i := 0; i <= 20; i++ {
		c := Inferno.Eval(float64(i) / 20)
		if c.A != 0xff {
			t.Fatalf("Eval(%v).A = %d, want 255", float64(i)/20, c.A)
		}
		cf, _ := colorful.MakeColor(c)
		l, _, _ := cf.Lab()
		if l <= prev {
			t.Errorf("L*(%v) = %v, want > %v", float64(i)/20, l, prev)
		}
		prev = l
	}
}

func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	tb := Inferno.Table(256)
	if tb.Len() != 256 {
		t.Fatalf("Len() = %d, want 256", tb.Len())
	}
	lo, hi := Inferno.Endpoints()

	tests := []struct {
		t    float64
		want color.RGBA
	}{
		{0, lo},
		{-3, lo},
		{1, hi},
		{7, hi},
	}
	for _, tt := range tests {
		if got := tb.Lookup(tt.t); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
	if got := tb.Hex(1); got != "#fcffa4" {
		t.Errorf("Hex(1) = %v, want #fcffa4", got)
	}
	if got, want := tb.Lookup(0.5), Inferno.Eval(float64(128)/255); got != want {
		t.Errorf("Lookup(0.5) = %v, want %v", got, want)
	}
}

func TestTable_HexMatchesColors(t *testing.T) {
	t.Parallel()

	tb := Magma.Table(64)
	for i := range tb.Len() {
		c := tb.Lookup(float64(i) / 63)
		if want := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B); tb.HexAt(i) != want {
			t.Errorf("HexAt(%d) = %v, want %v", i, tb.HexAt(i), want)
		}
	}
	if got := tb.Index(math.NaN()); got != 0 {
		t.Errorf("Index(NaN) = %d, want 0", got)
	}
	if got := tb.Index(2); got != 63 {
		t.Errorf("Index(2) = %d, want 63", got)
	}
}

func TestGradient_DefaultTableIsBuiltOnce(t *testing.T) {
	t.Parallel()

	g, err := NewGradient("grey", "#000000", "#ffffff")
	if err != nil {
		t.Fatalf("NewGradient() error = %v", err)
	}
	tb := g.DefaultTable()
	if tb.Len() != DefaultTableSize {
		t.Errorf("Len() = %d, want %d", tb.Len(), DefaultTableSize)
	}
	if g.DefaultTable() != tb {
		t.Error("DefaultTable() rebuilt the table on the second call")
	}
	if got := tb.Hex(1); got != "#ffffff" {
		t.Errorf("Hex(1) = %v, want #ffffff", got)
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"inferno", "Magma", " viridis "} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error = %v", name, err)
		}
	}
	if _, err := ByName("jet"); !errors.Is(err, ErrUnknownColormap) {
		t.Errorf("ByName(jet) error = %v, want %v", err, ErrUnknownColormap)
	}
	if Default() != Inferno {
		t.Error("Default() is not inferno")
	}
}

func TestNewGradient_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewGradient("one", "#000000"); err == nil {
		t.Error("NewGradient() with one stop: want error")
	}
	if _, err := NewGradient("bad", "#000000", "zzz"); err == nil {
		t.Error("NewGradient() with bad hex: want error")
	}
}
