// Package connect4 implements a two-player Connect Four engine on the classic
// 7x6 board, plus the terminal presentation of it used by the platform layer.
package connect4

import (
	"fmt"
	"strings"
)

// Board geometry. Fixed: the classic 7 columns, 6 rows, 4 in a row.
const (
	Cols      = 7
	Rows      = 6
	WinLength = 4
)

// Player is the content of a board cell. Red and Yellow double as the two
// players; Empty marks a free cell.
type Player uint8

const (
	Empty Player = iota
	Red
	Yellow
)

// Opponent returns the other player. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Yellow
	case Yellow:
		return Red
	default:
		return Empty
	}
}

// String returns the lowercase color name ("red", "yellow", "empty").
func (p Player) String() string {
	switch p {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	default:
		return "empty"
	}
}

// MarshalText encodes the player as its color name.
func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a color name produced by MarshalText.
func (p *Player) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePlayer parses "red", "yellow" or "empty" (case-insensitive).
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "yellow":
		return Yellow, nil
	case "empty", "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("connect4: unknown player %q", s)
	}
}

// Coord addresses a cell. Row 0 is the top row, row Rows-1 the bottom.
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// InBounds reports whether c lies on the board.
func (c Coord) InBounds() bool {
	return c.Col >= 0 && c.Col < Cols && c.Row >= 0 && c.Row < Rows
}

// Board is the grid of cells indexed [row][col]. It is a value type:
// assigning or returning a Board copies it.
type Board [Rows][Cols]Player

// At returns the cell at c, or Empty when c is off the board.
func (b *Board) At(c Coord) Player {
	if !c.InBounds() {
		return Empty
	}
	return b[c.Row][c.Col]
}

// LowestEmptyRow returns the row a token dropped into col would land on,
// or -1 when the column is full or col is out of range.
func (b *Board) LowestEmptyRow(col int) int {
	if col < 0 || col >= Cols {
		return -1
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][col] == Empty {
			return row
		}
	}
	return -1
}

// ColumnFull reports whether col has no empty cell left.
func (b *Board) ColumnFull(col int) bool {
	return b[0][col] != Empty
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	for row := range Rows {
		for col := range Cols {
			if b[row][col] == Empty {
				return false
			}
		}
	}
	return true
}


// String renders the board as Rows lines of Cols characters:
// 'R' for red, 'Y' for yellow, '.' for empty.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow((Cols + 1) * Rows)
	for row := range Rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range Cols {
			switch b[row][col] {
			case Red:
				sb.WriteByte('R')
			case Yellow:
				sb.WriteByte('Y')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
