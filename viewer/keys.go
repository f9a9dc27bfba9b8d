package viewer

import tea "github.com/charmbracelet/bubbletea"

// wheel-equivalent deltas for one key press
const (
	panDelta  = 160 // a tenth of the visible range
	zoomDelta = 200 // a factor of sqrt(2)
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText() string {
	return "←/→ pan  +/- zoom time  ↑/↓ pitch  [/] zoom pitch  tab mode  a levels  r reset  q quit"
}

// handleKey moves the target viewport. It reports whether anything changed.
func (m *Model) handleKey(msg tea.KeyMsg) bool {
	duration := m.buf.Seconds()
	target := &m.target
	switch msg.String() {
	case "left", "h":
		target.ScrollTime(-panDelta, false, 0, duration)
	case "right", "l":
		target.ScrollTime(panDelta, false, 0, duration)
	case "+", "=":
		target.ScrollTime(-zoomDelta, true, 0.5, duration)
	case "-", "_":
		target.ScrollTime(zoomDelta, true, 0.5, duration)
	case "up", "k":
		target.ScrollPitch(-panDelta/target.Aspect(), false, 0)
	case "down", "j":
		target.ScrollPitch(panDelta/target.Aspect(), false, 0)
	case "]":
		target.ScrollPitch(-zoomDelta, true, 0.5)
	case "[":
		target.ScrollPitch(zoomDelta, true, 0.5)
	case "tab":
		m.mode = 1 - m.mode
	case "a":
		m.autoLevels = !m.autoLevels
	case "r":
		m.resetView()
	default:
		return false
	}
	return true
}
