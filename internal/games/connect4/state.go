package connect4

import "fmt"

// State is one game of Connect Four: the board, whose turn it is and the
// outcome so far. It is changed only through Drop and Reset.
//
// A State is not safe for concurrent use; callers that share one across
// goroutines must serialize access to it.
type State struct {
	board   Board
	current Player
	status  Status
	last    Coord
	hasLast bool
	winning []Coord
	moves   int
}

// NewGame returns a fresh game: empty board, Red to move.
func NewGame() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset discards the current game and starts a fresh one.
func (s *State) Reset() {
	*s = State{
		current: Red,
		status:  Status{Outcome: InProgress},
	}
}

// Drop places the current player's token in the lowest empty cell of col
// and returns where it landed.
//
// Drop is all-or-nothing. It fails with ErrGameOver once the game has ended,
// ErrInvalidColumn for col outside [0, Cols) and ErrColumnFull when the
// column has no room left; in each case the state is left unchanged.
//
// After a winning or drawing move the current player stays the one who
// moved. Otherwise the turn passes to the opponent.
func (s *State) Drop(col int) (Coord, error) {
	if s.status.Terminal() {
		return Coord{}, fmt.Errorf("connect4: drop column %d: %w", col, ErrGameOver)
	}
	if col < 0 || col >= Cols {
		return Coord{}, fmt.Errorf("connect4: drop column %d: %w", col, ErrInvalidColumn)
	}
	row := s.board.LowestEmptyRow(col)
	if row < 0 {
		return Coord{}, fmt.Errorf("connect4: drop column %d: %w", col, ErrColumnFull)
	}

	at := Coord{Col: col, Row: row}
	s.board[row][col] = s.current
	s.last = at
	s.hasLast = true
	s.moves++

	res := Evaluate(s.board)
	s.status = res.Status
	s.winning = Flatten(res.Lines)

	if !s.status.Terminal() {
		s.current = s.current.Opponent()
	}
	return at, nil
}

// CanDrop reports whether Drop(col) would succeed.
func (s *State) CanDrop(col int) bool {
	return !s.status.Terminal() && col >= 0 && col < Cols && !s.board.ColumnFull(col)
}

// Status returns the outcome so far.
func (s *State) Status() Status {
	return s.status
}

// CurrentPlayer returns the player to move, or the player who made the
// final move once the game is over.
func (s *State) CurrentPlayer() Player {
	return s.current
}

// CellAt returns the content of the cell at (col, row).
// Coordinates off the board read as Empty.
func (s *State) CellAt(col, row int) Player {
	return s.board.At(Coord{Col: col, Row: row})
}

// Board returns a copy of the board.
func (s *State) Board() Board {
	return s.board
}

// WinningLine returns the cells of the completed line(s), in scan order.
// It is empty unless the game is won.
func (s *State) WinningLine() []Coord {
	if len(s.winning) == 0 {
		return []Coord{}
	}
	out := make([]Coord, len(s.winning))
	copy(out, s.winning)
	return out
}

// IsWinningCell reports whether c is part of a completed line.
func (s *State) IsWinningCell(c Coord) bool {
	for _, w := range s.winning {
		if w == c {
			return true
		}
	}
	return false
}

// LastMove returns the most recently placed cell; ok is false before the
// first move.
func (s *State) LastMove() (c Coord, ok bool) {
	return s.last, s.hasLast
}

// Moves returns how many tokens have been placed.
func (s *State) Moves() int {
	return s.moves
}

// Clone returns an independent copy of the game.
func (s *State) Clone() *State {
	c := *s
	c.winning = s.WinningLine()
	return &c
}
