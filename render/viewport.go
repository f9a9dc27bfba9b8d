package render

import (
	"errors"
	"fmt"
	"math"
)

// Viewport limits and rates for wheel-style scroll and zoom
const (
	PitchCeiling = 136.0

	TimeRangeMin   = 1.0 / 1000
	TimeZoomRate   = 1.0 / 400
	TimeScrollRate = 1.0 / 1600

	PitchRangeMin   = 6.0
	PitchZoomRate   = 1.0 / 400
	PitchScrollRate = -1.0 / 1600
)

// Pitch range shown before the user zooms: A0 to C8
const (
	DefaultPitchMin = 21.0
	DefaultPitchMax = 108.0
)

var ErrInvalidViewport = errors.New("invalid viewport")

// Viewport is the visible window onto a buffer: a time range, a pitch range
// and the pixel size it is drawn at
type Viewport struct {
	TimeStart float64 `json:"time_start"`
	TimeEnd   float64 `json:"time_end"`
	PitchMin  float64 `json:"pitch_min"`
	PitchMax  float64 `json:"pitch_max"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
}

// DefaultViewport shows the whole of duration seconds over the default pitch range
func DefaultViewport(duration float64, width, height int) Viewport {
	return Viewport{
		TimeStart: 0,
		TimeEnd:   duration,
		PitchMin:  DefaultPitchMin,
		PitchMax:  DefaultPitchMax,
		Width:     width,
		Height:    height,
	}
}

// Validate reports whether the viewport can be rendered
func (v Viewport) Validate() error {
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidViewport, v.Width, v.Height)
	case !finite(v.TimeStart, v.TimeEnd, v.PitchMin, v.PitchMax):
		return fmt.Errorf("%w: non-finite bounds", ErrInvalidViewport)
	case v.TimeEnd <= v.TimeStart:
		return fmt.Errorf("%w: time range [%v, %v]", ErrInvalidViewport, v.TimeStart, v.TimeEnd)
	case v.PitchMax <= v.PitchMin:
		return fmt.Errorf("%w: pitch range [%v, %v]", ErrInvalidViewport, v.PitchMin, v.PitchMax)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Aspect returns width over height
func (v Viewport) Aspect() float64 {
	return float64(v.Width) / float64(v.Height)
}

// ScrollZoom applies one wheel step to the range [lo, hi].
//
// With zoom set the range is scaled by 2^(delta*zoomRate), kept within
// [rangeMin, clampMax-clampMin], and the point centerFrac of the way across
// stays put. Otherwise the range shifts by range*delta*scrollRate. Either way
// the result is moved back inside [clampMin, clampMax]; if it is wider than
// that, it starts at clampMin.
func ScrollZoom(lo, hi, clampMin, clampMax, rangeMin, zoomRate, scrollRate, delta float64, zoom bool, centerFrac float64) (float64, float64) {
	span := hi - lo
	if zoom {
		next := span * math.Exp2(delta*zoomRate)
		next = max(min(next, clampMax-clampMin), rangeMin)
		lo -= centerFrac * (next - span)
		span = next
	} else {
		lo += span * delta * scrollRate
	}
	lo = max(min(lo, clampMax-span), clampMin)
	return lo, lo + span
}

// ScrollTime scrolls or zooms the time axis within [0, duration]
func (v *Viewport) ScrollTime(delta float64, zoom bool, centerFrac, duration float64) {
	v.TimeStart, v.TimeEnd = ScrollZoom(v.TimeStart, v.TimeEnd, 0, duration,
		TimeRangeMin, TimeZoomRate, TimeScrollRate, delta, zoom, centerFrac)
}

// ScrollPitch scrolls or zooms the pitch axis within [0, PitchCeiling].
// Scrolling is scaled by the aspect ratio so that equal wheel deltas move
// both axes by a similar number of pixels.
func (v *Viewport) ScrollPitch(delta float64, zoom bool, centerFrac float64) {
	v.PitchMin, v.PitchMax = ScrollZoom(v.PitchMin, v.PitchMax, 0, PitchCeiling,
		PitchRangeMin, PitchZoomRate, PitchScrollRate*v.Aspect(), delta, zoom, centerFrac)
}
