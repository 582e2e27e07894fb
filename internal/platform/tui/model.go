// Package tui provides the Bubble Tea front end for Connect Four.
// It handles the terminal UI loop, input mapping and the SSH server.
package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
)

// Options configures a Model.
type Options struct {
	Theme    connect4.Theme
	ShowHelp bool        // show the key help footer
	Logger   *log.Logger // nil discards
	Painter  *Painter    // nil uses the default renderer
	// ScreenshotDir is where ctrl+s writes the board; empty disables it.
	ScreenshotDir string
}

// Model is the Bubble Tea model for one hot-seat game. It is event driven:
// the game only changes in response to a key.
type Model struct {
	game     *connect4.Game
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	mapper   *KeyMapper
	help     help.Model
	painter  *Painter
	logger   *log.Logger
	opts     Options
	quitting bool
}

// NewModel creates a new Bubble Tea model for a fresh game.
func NewModel(cfg core.RuntimeConfig, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Painter == nil {
		opts.Painter = NewPainter(nil)
	}

	keys := DefaultKeyMap()
	m := Model{
		game:    connect4.New(opts.Theme),
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:  cfg,
		keys:    keys,
		mapper:  NewKeyMapper(keys),
		help:    help.New(),
		painter: opts.Painter,
		logger:  opts.Logger,
		opts:    opts,
	}
	m.help.Width = cfg.ScreenW
	m.game.Reset(m.boardConfig())
	m.screen.Resize(m.boardConfig().ScreenW, m.boardConfig().ScreenH)
	return m
}

// boardConfig is the runtime config minus the help footer line.
func (m Model) boardConfig() core.RuntimeConfig {
	cfg := m.config
	if m.opts.ShowHelp && cfg.ScreenH > 0 {
		cfg.ScreenH--
	}
	return cfg
}

// Init initializes the model. There is no tick loop.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Shot) {
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else if path != "" {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	frame := core.NewInputFrame()
	if m.mapper.MapKeyToFrame(msg, &frame) {
		m.quitting = true
		return m, tea.Quit
	}
	if frame.Empty() {
		return m, nil
	}

	mover := m.game.Snapshot().Current
	res := m.game.Step(frame)
	switch {
	case res.Reset:
		m.logger.Debug("new game")
	case res.Err != nil:
		m.logger.Debug("move rejected", "player", mover, "error", res.Err)
	case res.Placed:
		m.logger.Debug("move", "player", mover, "at", res.At, "status", res.Status)
		if res.Status.Terminal() {
			m.logger.Info("game over", "status", res.Status, "moves", m.game.Snapshot().Moves)
		}
	}
	return m, nil
}

// handleResize processes window resize events. The game in progress is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width

	board := m.boardConfig()
	m.screen.Resize(board.ScreenW, board.ScreenH)
	m.game.Resize(board.ScreenW, board.ScreenH)

	return m, nil
}

// saveScreenshot writes the current board as plain text and returns its path.
func (m Model) saveScreenshot() (string, error) {
	if m.opts.ScreenshotDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create screenshot directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.opts.ScreenshotDir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.game.RenderText()+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("cannot write screenshot: %w", err)
	}
	return path, nil
}

// Game returns the game driven by the model.
func (m Model) Game() *connect4.Game {
	return m.game
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	view := m.painter.Render(m.screen)
	if m.opts.ShowHelp {
		view += "\n" + m.help.View(m.keys)
	}
	return view
}

// Run starts the Bubble Tea program for a local game.
func Run(cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
