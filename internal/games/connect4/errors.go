package connect4

import "errors"

// Errors returned by State.Drop. They are caller-input errors: the state is
// never modified when one is returned. Test with errors.Is.
var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("column is full")
	ErrGameOver      = errors.New("game is over")
)
