package connect4

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-connect4/internal/core"
)

// Game is the interactive front of a State: a drop cursor, the rules
// overlay and a one-line notice for rejected moves. The platform feeds it
// input frames and asks it to render; it holds exactly one State.
type Game struct {
	state  *State
	theme  Theme
	cursor int
	notice string
	help   bool

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool
}

// StepResult reports what one input frame did.
type StepResult struct {
	Placed bool  // a token was dropped
	At     Coord // where it landed, when Placed
	Err    error // rejected drop, if any
	Reset  bool  // a new game was started
	Status Status
}

// New creates a game drawn with the given theme.
func New(theme Theme) *Game {
	return &Game{
		state: NewGame(),
		theme: theme,
	}
}

// Load starts a game from a copy of s, e.g. one produced by Replay. Later
// changes to either side do not affect the other.
func Load(s *State, theme Theme) *Game {
	return &Game{
		state:  s.Clone(),
		theme:  theme,
		cursor: Cols / 2,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "connect4"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Connect Four"
}

// Reset starts a fresh game sized for cfg.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.state.Reset()
	g.cursor = Cols / 2
	g.notice = ""
	g.help = false
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the layout to a new screen size without touching the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < MinScreenW || h < MinScreenH
}

// Step applies one input frame.
func (g *Game) Step(in core.InputFrame) StepResult {
	res := StepResult{}

	if in.Has(core.ActionHelp) {
		g.help = !g.help
	}

	if in.Has(core.ActionRestart) {
		g.state.Reset()
		g.notice = ""
		res.Reset = true
		res.Status = g.state.Status()
		return res
	}

	// Moves are ignored while the board is hidden.
	if g.help || g.tooSmall {
		res.Status = g.state.Status()
		return res
	}

	if in.Has(core.ActionLeft) {
		g.cursor = core.Wrap(g.cursor-1, Cols)
	}
	if in.Has(core.ActionRight) {
		g.cursor = core.Wrap(g.cursor+1, Cols)
	}

	col, drop := g.cursor, in.Has(core.ActionDrop)
	if in.Has(core.ActionColumn) {
		col, drop = in.Column, true
	}

	if drop {
		at, err := g.state.Drop(col)
		if err != nil {
			res.Err = err
			g.notice = noticeFor(err, col)
		} else {
			res.Placed = true
			res.At = at
			g.notice = ""
			if col >= 0 && col < Cols {
				g.cursor = col
			}
		}
	}

	res.Status = g.state.Status()
	return res
}

// noticeFor turns a rejected drop into a message for the player.
func noticeFor(err error, col int) string {
	switch {
	case errors.Is(err, ErrGameOver):
		return "The game is over. Press R for a new game."
	case errors.Is(err, ErrColumnFull):
		return fmt.Sprintf("Column %d is full.", col+1)
	case errors.Is(err, ErrInvalidColumn):
		return fmt.Sprintf("There is no column %d.", col+1)
	default:
		return err.Error()
	}
}

// Status returns the outcome so far.
func (g *Game) Status() Status {
	return g.state.Status()
}

// Snapshot returns a copy of the underlying game state.
func (g *Game) Snapshot() Snapshot {
	return g.state.Snapshot()
}

// CanDrop reports whether the column under col accepts a token.
func (g *Game) CanDrop(col int) bool {
	return g.state.CanDrop(col)
}

// Cursor returns the column the drop cursor points at.
func (g *Game) Cursor() int {
	return g.cursor
}

// Notice returns the message about the last rejected move, if any.
func (g *Game) Notice() string {
	return g.notice
}

// ShowingHelp reports whether the rules overlay is open.
func (g *Game) ShowingHelp() bool {
	return g.help
}

// Theme returns the theme the game is drawn with.
func (g *Game) Theme() Theme {
	return g.theme
}
