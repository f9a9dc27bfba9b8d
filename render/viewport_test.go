package render

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScrollZoom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		lo, hi         float64
		delta          float64
		zoom           bool
		center         float64
		wantLo, wantHi float64
	}{
		{"scroll right", 0, 10, 160, false, 0, 1, 11},
		{"scroll left clamps", 2, 12, -1600, false, 0, 0, 10},
		{"scroll right clamps", 95, 100, 1600, false, 0, 95, 100},
		{"zoom out clamps at start", 0, 10, 400, true, 0.5, 0, 20},
		{"zoom in about centre", 40, 60, -400, true, 0.5, 45, 55},
		{"zoom in about left edge", 40, 60, -400, true, 0, 40, 50},
		{"zoom in stops at range min", 40, 60, -4000, true, 0.5, 47, 53},
		{"zoom out stops at full range", 40, 60, 4000, true, 0.5, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lo, hi := ScrollZoom(tt.lo, tt.hi, 0, 100, 6, 1.0/400, 1.0/1600, tt.delta, tt.zoom, tt.center)
			if !approx(lo, tt.wantLo) || !approx(hi, tt.wantHi) {
				t.Errorf("ScrollZoom() = [%v, %v], want [%v, %v]", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestViewport_ScrollPitchUsesAspect(t *testing.T) {
	t.Parallel()

	v := Viewport{TimeStart: 0, TimeEnd: 1, PitchMin: 40, PitchMax: 80, Width: 200, Height: 100}
	// 40 semitones * 400 * (-2/1600) = -20
	v.ScrollPitch(400, false, 0)
	if !approx(v.PitchMin, 20) || !approx(v.PitchMax, 60) {
		t.Errorf("ScrollPitch() = [%v, %v], want [20, 60]", v.PitchMin, v.PitchMax)
	}

	v.ScrollPitch(4000, true, 0.5)
	if !approx(v.PitchMin, 0) || !approx(v.PitchMax, PitchCeiling) {
		t.Errorf("ScrollPitch(zoom out) = [%v, %v], want [0, %v]", v.PitchMin, v.PitchMax, PitchCeiling)
	}
}

func TestViewport_ScrollTimeStaysInsideDuration(t *testing.T) {
	t.Parallel()

	v := DefaultViewport(3, 100, 50)
	v.ScrollTime(-800, true, 1, 3)
	if !approx(v.TimeEnd, 3) || !approx(v.TimeStart, 2.25) {
		t.Errorf("ScrollTime(zoom in at right edge) = [%v, %v], want [2.25, 3]", v.TimeStart, v.TimeEnd)
	}
	v.ScrollTime(1600, false, 0, 3)
	if !approx(v.TimeEnd, 3) {
		t.Errorf("ScrollTime(past end) TimeEnd = %v, want 3", v.TimeEnd)
	}

	v.ScrollTime(-1e6, true, 0.5, 3)
	if got := v.TimeEnd - v.TimeStart; !approx(got, TimeRangeMin) {
		t.Errorf("ScrollTime(max zoom) range = %v, want %v", got, TimeRangeMin)
	}
}

func TestViewport_Validate(t *testing.T) {
	t.Parallel()

	good := DefaultViewport(1, 10, 10)
	tests := []struct {
		name   string
		mutate func(*Viewport)
		ok     bool
	}{
		{"default", func(*Viewport) {}, true},
		{"zero width", func(v *Viewport) { v.Width = 0 }, false},
		{"empty time", func(v *Viewport) { v.TimeEnd = v.TimeStart }, false},
		{"inverted pitch", func(v *Viewport) { v.PitchMin, v.PitchMax = 90, 30 }, false},
		{"nan time", func(v *Viewport) { v.TimeEnd = math.NaN() }, false},
	}
	for _, tt := range tests {
		v := good
		tt.mutate(&v)
		err := v.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: Validate() error = %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidViewport) {
			t.Errorf("%s: Validate() error = %v, want %v", tt.name, err, ErrInvalidViewport)
		}
	}
}
