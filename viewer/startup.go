package viewer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RyanBlaney/sonido-scope/audio"
	"github.com/RyanBlaney/sonido-scope/config"
	"github.com/RyanBlaney/sonido-scope/transcode"
)

// LoadFunc produces the buffer to view. It runs off the UI goroutine.
type LoadFunc func(ctx context.Context) (*audio.Buffer, error)

type loadedMsg struct {
	model Model
	err   error
}

// startupModel shows a spinner while the file is decoded and preprocessed,
// then hands over to Model
type startupModel struct {
	ctx     context.Context
	title   string
	load    LoadFunc
	cfg     *config.RenderConfig
	spinner spinner.Model
	err     error

	width, height int
}

func newStartupModel(ctx context.Context, title string, load LoadFunc, cfg *config.RenderConfig) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return startupModel{
		ctx:     ctx,
		title:   title,
		load:    load,
		cfg:     cfg,
		spinner: s,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m startupModel) loadCmd() tea.Cmd {
	ctx, load, cfg := m.ctx, m.load, m.cfg
	return func() tea.Msg {
		buf, err := load(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		model, err := New(buf, cfg)
		return loadedMsg{model: model, err: err}
	}
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.err != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		next := msg.model
		if m.width > 0 || m.height > 0 {
			next, _ = next.handleMsg(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return next, next.Init()

	case tea.KeyMsg:
		if isQuit(msg) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m startupModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(resolutionStyle.Render(m.title))
	b.WriteString("\n\n  ")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(statusStyle.Render("Decoding..."))
	}
	b.WriteString("\n\n  ")
	b.WriteString(helpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the viewer on the terminal and blocks until the user quits.
// The UI is up while load runs.
func Run(ctx context.Context, title string, load LoadFunc, cfg *config.RenderConfig) error {
	if cfg == nil {
		cfg = config.DefaultRenderConfig()
	}
	_, err := tea.NewProgram(newStartupModel(ctx, title, load, cfg), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// RunFile decodes path with dec and views it
func RunFile(ctx context.Context, path string, dec *transcode.Decoder, cfg *config.RenderConfig) error {
	return Run(ctx, filepath.Base(path), func(ctx context.Context) (*audio.Buffer, error) {
		return dec.DecodeFile(ctx, path)
	}, cfg)
}
