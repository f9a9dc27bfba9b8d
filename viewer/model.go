// Package viewer is an interactive terminal front end for the renderers.
// Every viewport change re-renders the visible tile and draws it with
// half-block characters, two pixel rows per terminal row.
package viewer

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/colormap"
	"github.com/RyanBlaney/sonido-scope/config"
	"github.com/RyanBlaney/sonido-scope/logging"
	"github.com/RyanBlaney/sonido-scope/render"
)

type mode uint8

const (
	modeSpectrogram mode = iota
	modeWaveform
)

func (m mode) String() string {
	if m == modeWaveform {
		return "waveform"
	}
	return "spectrogram"
}

// terminal rows taken by the status and help lines
const chromeRows = 2

// Model is the bubbletea model of the viewer
type Model struct {
	buf *audio.Buffer
	cfg *config.RenderConfig

	multi    *render.MultiResolution
	parallel *render.Parallel
	wave     *render.Waveform
	table    *colormap.Table
	cells    map[[2]int]string // rendered "▀" per (upper, lower) table index
	waveFg   lipgloss.Color

	target render.Viewport
	shown  render.Viewport
	spring viewportSpring

	animating  bool
	mode       mode
	autoLevels bool
	resolution string
	levels     [2]float32

	width, height int
	frame         string
	err           error

	logger logging.Logger
}

// New prepares the renderers for buf. With cfg.MultiResolution the
// spectrogram switches between the full, half and quarter rate copies;
// otherwise it renders the full rate buffer across cfg.Workers goroutines.
func New(buf *audio.Buffer, cfg *config.RenderConfig) (Model, error) {
	if cfg == nil {
		cfg = config.DefaultRenderConfig()
	}
	gradient, err := cfg.Gradient()
	if err != nil {
		return Model{}, err
	}
	style, err := cfg.WaveformStyle()
	if err != nil {
		return Model{}, err
	}

	m := Model{
		buf:        buf,
		cfg:        cfg,
		wave:       render.NewWaveform(buf),
		table:      gradient.Table(256),
		cells:      make(map[[2]int]string),
		waveFg:     lipgloss.Color(cfg.WaveformColor),
		autoLevels: cfg.AutoLevels,
		levels:     [2]float32{cfg.DBMin, cfg.DBMax},
		logger:     logging.WithFields(logging.Fields{"component": "viewer"}),
	}
	m.wave.SetStyle(style)

	if cfg.MultiResolution {
		p, err := audio.Preprocess(buf)
		if err != nil {
			return Model{}, fmt.Errorf("failed to preprocess audio: %w", err)
		}
		if m.multi, err = render.NewMultiResolution(p, cfg.FFTSize(), cfg.GaussianSigma); err != nil {
			return Model{}, err
		}
	} else {
		if m.parallel, err = render.NewParallel(buf, cfg.FFTSize(), cfg.GaussianSigma, cfg.Workers); err != nil {
			return Model{}, err
		}
	}

	m.target = m.initialView(1, 1)
	m.shown = m.target
	m.spring = newViewportSpring(m.target)
	return m, nil
}

func (m *Model) initialView(width, height int) render.Viewport {
	v := render.DefaultViewport(m.buf.Seconds(), width, height)
	v.PitchMin, v.PitchMax = m.cfg.PitchMin, m.cfg.PitchMax
	return v
}

// resetView snaps back to the initial view without easing
func (m *Model) resetView() {
	m.target = m.initialView(m.target.Width, m.target.Height)
	m.shown = m.target
	m.spring.jump(m.target)
	m.redraw()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			return m, tea.Quit
		}
		before := m.target
		if !m.handleKey(msg) {
			return m, nil
		}
		if m.target == before {
			// mode or level toggles only need a redraw
			m.redraw()
			return m, nil
		}
		return m.startAnimation()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w, h := m.pixelSize()
		m.target.Width, m.target.Height = w, h
		m.shown.Width, m.shown.Height = w, h
		m.logger.Debug("Resized", logging.Fields{"cols": w, "pixel_rows": h})
		m.redraw()
		return m, nil

	case frameMsg:
		if m.spring.step(m.target, &m.shown) {
			m.animating = false
			m.redraw()
			return m, nil
		}
		m.redraw()
		return m, frameCmd()
	}
	return m, nil
}

func (m Model) startAnimation() (Model, tea.Cmd) {
	if m.animating {
		return m, nil
	}
	m.animating = true
	return m, frameCmd()
}

// pixelSize is the tile size that fills the terminal below the chrome
func (m *Model) pixelSize() (int, int) {
	rows := max(m.height-chromeRows, 1)
	return max(m.width, 1), 2 * rows
}

// redraw renders the shown viewport into m.frame
func (m *Model) redraw() {
	if m.width <= 0 || m.height <= 0 {
		m.frame = ""
		return
	}
	w, h := m.pixelSize()
	v := m.shown
	v.Width, v.Height = w, h

	var body string
	switch m.mode {
	case modeWaveform:
		body = m.drawWaveform(v)
	default:
		tile, err := m.renderTile(v)
		if err != nil {
			m.err = err
			body = errorStyle.Render(err.Error())
			break
		}
		m.err = nil
		body = m.drawTile(tile)
	}
	m.frame = body
}

func (m *Model) renderTile(v render.Viewport) (*render.Tile, error) {
	var tile *render.Tile
	if m.multi != nil {
		tile = m.multi.Render(v.Width, v.Height, v.PitchMin, v.PitchMax, v.TimeStart, v.TimeEnd)
		m.resolution = m.multi.LastResolution().String()
	} else {
		var err error
		tile, err = m.parallel.Render(context.Background(), v.Width, v.Height, v.PitchMin, v.PitchMax, v.TimeStart, v.TimeEnd)
		if err != nil {
			return nil, err
		}
		m.resolution = audio.Full.String()
	}

	m.levels = [2]float32{m.cfg.DBMin, m.cfg.DBMax}
	if m.autoLevels {
		q := m.cfg.LevelQuantiles
		if lo, hi, ok := tile.Levels(q[0], q[1]); ok {
			m.levels = [2]float32{lo, hi}
		}
	}
	return tile, nil
}

func (m *Model) norm(v float32) float64 {
	return float64(v-m.levels[0]) / float64(m.levels[1]-m.levels[0])
}

// drawTile packs two tile rows into each terminal row with "▀": the
// foreground paints the upper pixel and the background the lower one
func (m *Model) drawTile(tile *render.Tile) string {
	var b strings.Builder
	for y := 0; y+1 < tile.Height; y += 2 {
		upper, lower := tile.Row(y), tile.Row(y+1)
		for x := range tile.Width {
			b.WriteString(m.cell(m.table.Index(m.norm(upper[x])), m.table.Index(m.norm(lower[x]))))
		}
		if y+2 < tile.Height {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) cell(upper, lower int) string {
	k := [2]int{upper, lower}
	if c, ok := m.cells[k]; ok {
		return c
	}
	c := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.table.HexAt(upper))).
		Background(lipgloss.Color(m.table.HexAt(lower))).
		Render("▀")
	m.cells[k] = c
	return c
}

func (m *Model) drawWaveform(v render.Viewport) string {
	spans := m.wave.Columns(v.TimeStart, v.TimeEnd, v.Width, v.Height)
	painted := func(x, row int) bool {
		// row counts from the top, spans from the bottom
		y := v.Height - 1 - row
		s := spans[x]
		return s.Painted && y >= s.Y0 && y <= s.Y1
	}

	style := lipgloss.NewStyle().Foreground(m.waveFg)
	var b strings.Builder
	for row := 0; row+1 < v.Height; row += 2 {
		var line strings.Builder
		for x := range v.Width {
			switch top, bottom := painted(x, row), painted(x, row+1); {
			case top && bottom:
				line.WriteString("█")
			case top:
				line.WriteString("▀")
			case bottom:
				line.WriteString("▄")
			default:
				line.WriteByte(' ')
			}
		}
		b.WriteString(style.Render(line.String()))
		if row+2 < v.Height {
			b.WriteByte('\n')
		}
	}
	m.resolution = audio.Full.String()
	return b.String()
}

func (m Model) statusLine() string {
	v := m.shown
	status := fmt.Sprintf("%s  t %.3f-%.3f s  pitch %.1f-%.1f  dB %.0f..%.0f",
		m.mode, v.TimeStart, v.TimeEnd, v.PitchMin, v.PitchMax, m.levels[0], m.levels[1])
	if m.autoLevels {
		status += " (auto)"
	}
	return statusStyle.Render(status) + "  " + resolutionStyle.Render(m.resolution)
}

func (m Model) View() string {
	if m.width <= 0 {
		return "loading..."
	}
	return m.frame + "\n" + m.statusLine() + "\n" + helpStyle.Render(helpText())
}
