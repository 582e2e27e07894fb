package connect4

// Snapshot is a read-only copy of a game, safe to hand to other goroutines
// or encode as JSON.
type Snapshot struct {
	Board       Board   `json:"board"`
	Current     Player  `json:"current"`
	Status      Status  `json:"status"`
	LastMove    *Coord  `json:"last_move,omitempty"`
	WinningLine []Coord `json:"winning_line"`
	Moves       int     `json:"moves"`
}

// Snapshot captures the current state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Board:       s.board,
		Current:     s.current,
		Status:      s.status,
		WinningLine: s.WinningLine(),
		Moves:       s.moves,
	}
	if last, ok := s.LastMove(); ok {
		snap.LastMove = &last
	}
	return snap
}
