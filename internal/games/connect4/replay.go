package connect4

import (
	"fmt"
	"strings"
)

// ParseMoves parses a move sequence in the usual Connect Four notation:
// 1-based column digits, optionally separated by commas or whitespace
// ("4453" or "4, 4, 5, 3"). It returns 0-based columns.
func ParseMoves(s string) ([]int, error) {
	var moves []int
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r == ',' || r == ' ' || r == '\t' || r == '\n':
			continue
		case r >= '1' && r <= '0'+Cols:
			moves = append(moves, int(r-'1'))
		case r >= '0' && r <= '9':
			return nil, fmt.Errorf("connect4: move %q at offset %d: %w", r, i, ErrInvalidColumn)
		default:
			return nil, fmt.Errorf("connect4: unexpected character %q at offset %d", r, i)
		}
	}
	return moves, nil
}

// Replay plays cols on a fresh game. On failure it returns the state as it
// was before the offending move together with the error.
func Replay(cols []int) (*State, error) {
	s := NewGame()
	for i, col := range cols {
		if _, err := s.Drop(col); err != nil {
			return s, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return s, nil
}

// FormatMoves is the inverse of ParseMoves for 0-based columns.
func FormatMoves(cols []int) string {
	var sb strings.Builder
	for _, c := range cols {
		sb.WriteByte(byte('1' + c))
	}
	return sb.String()
}
