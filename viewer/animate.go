package viewer

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/RyanBlaney/sonido-scope/render"
)

const (
	fps           = 30
	springFreq    = 8.0
	springDamping = 1.0 // critically damped
	settleEpsilon = 1e-4
)

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// viewportSpring eases the four viewport bounds toward a target
type viewportSpring struct {
	spring harmonica.Spring
	pos    [4]float64
	vel    [4]float64
}

func newViewportSpring(v render.Viewport) viewportSpring {
	return viewportSpring{
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFreq, springDamping),
		pos:    bounds(v),
	}
}

func bounds(v render.Viewport) [4]float64 {
	return [4]float64{v.TimeStart, v.TimeEnd, v.PitchMin, v.PitchMax}
}

// step advances one frame and writes the eased bounds into shown. It reports
// whether the spring has settled on target, in which case shown equals target.
func (s *viewportSpring) step(target render.Viewport, shown *render.Viewport) bool {
	goal := bounds(target)
	settled := true
	for i := range s.pos {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], goal[i])
		scale := max(math.Abs(goal[i]), 1)
		if math.Abs(s.pos[i]-goal[i]) > settleEpsilon*scale || math.Abs(s.vel[i]) > settleEpsilon*scale {
			settled = false
		}
	}
	if settled {
		s.pos = goal
		s.vel = [4]float64{}
	}

	shown.TimeStart, shown.TimeEnd = s.pos[0], s.pos[1]
	shown.PitchMin, shown.PitchMax = s.pos[2], s.pos[3]
	return settled
}

// jump moves straight to v without easing
func (s *viewportSpring) jump(v render.Viewport) {
	s.pos = bounds(v)
	s.vel = [4]float64{}
}
