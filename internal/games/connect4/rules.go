package connect4

import "fmt"

// Outcome is the coarse state of a game.
type Outcome int

const (
	InProgress Outcome = iota
	Won
	Draw
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome as its string form.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes the string form produced by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*o = InProgress
	case "won":
		*o = Won
	case "draw":
		*o = Draw
	default:
		return fmt.Errorf("connect4: unknown outcome %q", text)
	}
	return nil
}

// Status is the outcome of a game. Winner is set only when Outcome is Won.
type Status struct {
	Outcome Outcome `json:"outcome"`
	Winner  Player  `json:"winner,omitempty"`
}

// Terminal reports whether no further drops are permitted.
func (s Status) Terminal() bool {
	return s.Outcome != InProgress
}

func (s Status) String() string {
	if s.Outcome == Won {
		return "won(" + s.Winner.String() + ")"
	}
	return s.Outcome.String()
}

// Line is WinLength contiguous cells in one direction.
type Line [WinLength]Coord

// lines holds every window of WinLength cells on the board, in scan order:
//
//	horizontal          row 0..5 outer, col 0..3 inner
//	vertical            col 0..6 outer, row 0..2 inner
//	diagonal down-right row 0..2 outer, col 0..3 inner
//	diagonal up-right   row 3..5 outer, col 0..3 inner
//
// The order decides which line a win reports first.
var lines = buildLines()

func buildLines() []Line {
	out := make([]Line, 0, 69)

	for row := 0; row < Rows; row++ {
		for col := 0; col <= Cols-WinLength; col++ {
			out = append(out, lineFrom(col, row, 1, 0))
		}
	}

	for col := 0; col < Cols; col++ {
		for row := 0; row <= Rows-WinLength; row++ {
			out = append(out, lineFrom(col, row, 0, 1))
		}
	}

	for row := 0; row <= Rows-WinLength; row++ {
		for col := 0; col <= Cols-WinLength; col++ {
			out = append(out, lineFrom(col, row, 1, 1))
		}
	}

	for row := WinLength - 1; row < Rows; row++ {
		for col := 0; col <= Cols-WinLength; col++ {
			out = append(out, lineFrom(col, row, 1, -1))
		}
	}

	return out
}

func lineFrom(col, row, dCol, dRow int) Line {
	var l Line
	for i := range WinLength {
		l[i] = Coord{Col: col + i*dCol, Row: row + i*dRow}
	}
	return l
}

// owner returns the player holding every cell of l, or Empty.
func (b *Board) owner(l Line) Player {
	p := b.At(l[0])
	if p == Empty {
		return Empty
	}
	for _, c := range l[1:] {
		if b.At(c) != p {
			return Empty
		}
	}
	return p
}

// Result is the evaluation of a whole board.
type Result struct {
	Status Status
	// Lines are the winner's completed lines in scan order; nil unless Won.
	Lines []Line
}

// Evaluate scans the entire board. The first completed line in scan order
// decides the winner; every other completed line of that winner is
// collected too. With no line and no empty cell the result is a draw.
func Evaluate(b Board) Result {
	winner := Empty
	var won []Line

	for _, l := range lines {
		p := b.owner(l)
		if p == Empty {
			continue
		}
		if winner == Empty {
			winner = p
		}
		if p == winner {
			won = append(won, l)
		}
	}

	if winner != Empty {
		return Result{Status: Status{Outcome: Won, Winner: winner}, Lines: won}
	}
	if b.Full() {
		return Result{Status: Status{Outcome: Draw}}
	}
	return Result{Status: Status{Outcome: InProgress}}
}

// Flatten concatenates lines into one ordered coordinate list.
func Flatten(ls []Line) []Coord {
	if len(ls) == 0 {
		return nil
	}
	out := make([]Coord, 0, len(ls)*WinLength)
	for _, l := range ls {
		out = append(out, l[:]...)
	}
	return out
}
