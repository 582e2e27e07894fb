package connect4

import (
	"unicode/utf8"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/core"
)

// Side is how one player is drawn.
type Side struct {
	Name   string
	Color  core.Color
	Symbol rune
}

// Theme controls how a game is drawn. It never affects the rules.
type Theme struct {
	Red             Side
	Yellow          Side
	BoardColor      core.Color
	ShowLastMove    bool
	HighlightWinner bool
}

// DefaultTheme returns the theme of the built-in configuration.
func DefaultTheme() Theme {
	return ThemeFromConfig(config.Default())
}

// ThemeFromConfig builds a theme from a loaded config. Invalid entries fall
// back to the defaults; use config.Validate to report them.
func ThemeFromConfig(cfg config.Config) Theme {
	return Theme{
		Red:             sideFromConfig(cfg.Players.Red, "Red", core.ColorRed, 'X'),
		Yellow:          sideFromConfig(cfg.Players.Yellow, "Yellow", core.ColorYellow, 'O'),
		BoardColor:      colorOr(cfg.UI.BoardColor, core.ColorBlue),
		ShowLastMove:    cfg.UI.ShowLastMove,
		HighlightWinner: cfg.UI.HighlightWinner,
	}
}

// Side returns the presentation of p. Empty gets a neutral gray side.
func (t Theme) Side(p Player) Side {
	switch p {
	case Red:
		return t.Red
	case Yellow:
		return t.Yellow
	default:
		return Side{Name: "", Color: core.ColorGray, Symbol: '·'}
	}
}

func sideFromConfig(pc config.PlayerConfig, name string, color core.Color, symbol rune) Side {
	s := Side{Name: name, Color: color, Symbol: symbol}
	if pc.Name != "" {
		s.Name = pc.Name
	}
	s.Color = colorOr(pc.Color, color)
	if utf8.RuneCountInString(pc.Symbol) == 1 {
		s.Symbol, _ = utf8.DecodeRuneInString(pc.Symbol)
	}
	return s
}

func colorOr(name string, fallback core.Color) core.Color {
	if c, ok := core.ParseColor(name); ok {
		return c
	}
	return fallback
}
