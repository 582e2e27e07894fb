package connect4

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-connect4/internal/core"
)

const (
	cellInner = 3 // characters inside each cell
	cellH     = 1 // rows inside each cell
	hudRows   = 5 // title, status, moves, column labels, cursor

	boardW = Cols*(cellInner+1) + 1
	boardH = Rows*(cellH+1) + 1

	// MinScreenW and MinScreenH are the smallest screen the board fits on.
	MinScreenW = boardW + 2
	MinScreenH = hudRows + boardH + 1
)

var rulesText = []string{
	"RULES",
	"",
	"Get four in a row:",
	"across, down or diagonal.",
	"7 columns, 6 rows.",
	"Red moves first, then",
	"players alternate.",
	"Tokens fall to the lowest",
	"free cell of a column.",
	"A full board with no four",
	"in a row is a draw.",
	"",
	"? close   R new game",
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		renderTooSmall(dst)
		return
	}

	top := (dst.Height() - MinScreenH) / 2
	boardX := (dst.Width() - boardW) / 2
	boardY := top + hudRows

	g.renderHUD(dst, top)
	g.renderColumnMarkers(dst, boardX, top+3)

	grid := dst.DrawGrid(boardX, boardY, Cols, Rows, cellInner, cellH, g.theme.BoardColor)
	g.renderCells(dst, boardX, boardY)

	if g.notice != "" {
		dst.DrawTextCentered(grid.Bottom(), g.notice, core.ColorOrange)
	}

	if g.help {
		renderRules(dst)
	}
}

// RenderText draws the board alone, without cursor or notices, as plain text.
func (g *Game) RenderText() string {
	scr := core.NewScreen(boardW, hudRows+boardH)
	g.renderHUD(scr, 0)
	g.renderColumnLabels(scr, 0, 3)
	scr.DrawGrid(0, hudRows, Cols, Rows, cellInner, cellH, g.theme.BoardColor)
	g.renderCells(scr, 0, hudRows)

	lines := make([]string, scr.Height())
	for y := range lines {
		lines[y] = strings.TrimRight(scr.Row(y), " ")
	}
	return strings.Join(lines, "\n")
}

// renderTooSmall shows a "window too small" message.
func renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH), core.ColorGray)
}

// renderHUD draws the title, whose turn it is or the result, and the move count.
func (g *Game) renderHUD(dst *core.Screen, top int) {
	dst.DrawTextCentered(top, "CONNECT FOUR", core.ColorBrightWhite)

	status := g.state.Status()
	switch status.Outcome {
	case Won:
		side := g.theme.Side(status.Winner)
		dst.DrawTextCentered(top+1, strings.ToUpper(side.Name)+" WINS!", side.Color.Bright())
	case Draw:
		dst.DrawTextCentered(top+1, "It's a draw!", core.ColorBrightWhite)
	default:
		side := g.theme.Side(g.state.CurrentPlayer())
		dst.DrawTextCentered(top+1, fmt.Sprintf("%s's turn (%c)", side.Name, side.Symbol), side.Color)
	}

	dst.DrawTextCentered(top+2, fmt.Sprintf("Moves: %d", g.state.Moves()), core.ColorGray)
}

// renderColumnMarkers draws the column numbers and the drop cursor below them.
func (g *Game) renderColumnMarkers(dst *core.Screen, boardX, y int) {
	g.renderColumnLabels(dst, boardX, y)

	if g.state.Status().Terminal() {
		return
	}
	x := cellX(boardX, g.cursor)
	if g.state.CanDrop(g.cursor) {
		dst.SetColored(x, y+1, '▼', g.theme.Side(g.state.CurrentPlayer()).Color)
	} else {
		dst.SetColored(x, y+1, '×', core.ColorGray)
	}
}

// renderColumnLabels draws 1-based column numbers; full columns are dimmed.
func (g *Game) renderColumnLabels(dst *core.Screen, boardX, y int) {
	for col := range Cols {
		color := core.ColorDefault
		if !g.state.CanDrop(col) {
			color = core.ColorGray
		}
		dst.SetColored(cellX(boardX, col), y, rune('1'+col), color)
	}
}

// renderCells draws every token. Winning cells are bracketed, the last move
// is parenthesized.
func (g *Game) renderCells(dst *core.Screen, boardX, boardY int) {
	last, hasLast := g.state.LastMove()

	for row := range Rows {
		for col := range Cols {
			c := Coord{Col: col, Row: row}
			side := g.theme.Side(g.state.CellAt(col, row))
			color := side.Color
			left, right := ' ', ' '

			switch {
			case g.theme.HighlightWinner && g.state.IsWinningCell(c):
				left, right = '[', ']'
				color = color.Bright()
			case g.theme.ShowLastMove && hasLast && last == c:
				left, right = '(', ')'
			}

			x, y := cellX(boardX, col), cellY(boardY, row)
			dst.SetColored(x-1, y, left, color)
			dst.SetColored(x, y, side.Symbol, color)
			dst.SetColored(x+1, y, right, color)
		}
	}
}

// renderRules draws the rules box over the middle of the screen.
func renderRules(dst *core.Screen) {
	inner := 0
	for _, l := range rulesText {
		inner = max(inner, len(l))
	}
	inner += 2

	w, h := inner+2, len(rulesText)+2
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	for y := box.Y + 1; y < box.Bottom()-1; y++ {
		for x := box.X + 1; x < box.Right()-1; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawGrid(box.X, box.Y, 1, 1, inner, len(rulesText), core.ColorBrightWhite)

	for i, l := range rulesText {
		dst.DrawText(box.X+1+(inner-len(l))/2, box.Y+1+i, l)
	}
}

// cellX returns the screen column of the token in board column col.
func cellX(boardX, col int) int {
	return boardX + 1 + col*(cellInner+1) + cellInner/2
}

// cellY returns the screen row of the token in board row row.
func cellY(boardY, row int) int {
	return boardY + 1 + row*(cellH+1)
}
