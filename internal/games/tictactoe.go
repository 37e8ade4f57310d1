package games

import (
	"time"

	"game-connect/server/internal/game"
)

// TicTacToe is the turn-based illustration rule set: two players, three by
// three board, thirty-second turns.
type TicTacToe struct {
	game.Session
	board   [3][3]string
	symbols map[string]string // player id -> "X" or "O"
}

// NewTicTacToe creates an empty board waiting for two players.
func NewTicTacToe() *TicTacToe {
	return &TicTacToe{symbols: make(map[string]string)}
}

// Config declares a two-player turn-based game with short turns.
func (g *TicTacToe) Config() game.Config {
	return game.Config{
		MinPlayers:  2,
		MaxPlayers:  2,
		Mode:        game.ModeTurnBased,
		TurnTimeout: 30 * time.Second,
	}
}

// AddPlayer assigns X to the first player and O to the second.
func (g *TicTacToe) AddPlayer(id string) {
	if _, ok := g.symbols[id]; ok {
		return
	}
	symbol := "X"
	if len(g.symbols) > 0 {
		symbol = "O"
	}
	g.symbols[id] = symbol
}

// RemovePlayer drops the player's symbol assignment.
func (g *TicTacToe) RemovePlayer(id string) {
	delete(g.symbols, id)
}

// Start clears the board for a fresh round.
func (g *TicTacToe) Start(playerIDs []string) {
	g.board = [3][3]string{}
	g.Begin()
}

// Update checks terminal conditions: a completed line wins, a full board
// draws. Moves themselves arrive through HandleMove.
func (g *TicTacToe) Update(inputs game.Inputs, dt float64) {
	if g.Over() {
		return
	}
	if symbol := g.winningSymbol(); symbol != "" {
		for id, s := range g.symbols {
			if s == symbol {
				g.End(id)
				return
			}
		}
		// Winning symbol belongs to a player who already left.
		g.End("")
		return
	}
	if g.boardFull() {
		g.End("")
	}
}

// HandleMove validates coordinates and occupancy, then places the symbol.
func (g *TicTacToe) HandleMove(playerID string, move map[string]any) game.Result {
	row, okRow := intField(move, "row")
	col, okCol := intField(move, "col")
	if !okRow || !okCol || row < 0 || row > 2 || col < 0 || col > 2 {
		return game.Invalid("Invalid move coordinates")
	}
	if g.board[row][col] != "" {
		return game.Invalid("Cell already occupied")
	}
	symbol, ok := g.symbols[playerID]
	if !ok {
		return game.Invalid("Unknown player")
	}
	g.board[row][col] = symbol
	return game.Valid(map[string]any{
		"row":    row,
		"col":    col,
		"symbol": symbol,
	})
}

// ViewFor shares the whole board; tic-tac-toe has no hidden information.
func (g *TicTacToe) ViewFor(playerID string) game.View {
	symbols := make(map[string]string, len(g.symbols))
	for id, symbol := range g.symbols {
		symbols[id] = symbol
	}
	status := g.Status()
	return game.View{
		"board":          g.boardView(),
		"your_symbol":    g.symbols[playerID],
		"player_symbols": symbols,
		"game_started":   status.Started,
		"game_over":      status.Over,
		"winner":         status.Winner,
	}
}

// boardView copies the board, mapping empty cells to nil for the wire.
func (g *TicTacToe) boardView() [][]any {
	view := make([][]any, 3)
	for row := range g.board {
		cells := make([]any, 3)
		for col, cell := range g.board[row] {
			if cell != "" {
				cells[col] = cell
			}
		}
		view[row] = cells
	}
	return view
}

func (g *TicTacToe) winningSymbol() string {
	b := g.board
	for i := 0; i < 3; i++ {
		if b[i][0] != "" && b[i][0] == b[i][1] && b[i][1] == b[i][2] {
			return b[i][0]
		}
		if b[0][i] != "" && b[0][i] == b[1][i] && b[1][i] == b[2][i] {
			return b[0][i]
		}
	}
	if b[0][0] != "" && b[0][0] == b[1][1] && b[1][1] == b[2][2] {
		return b[0][0]
	}
	if b[0][2] != "" && b[0][2] == b[1][1] && b[1][1] == b[2][0] {
		return b[0][2]
	}
	return ""
}

func (g *TicTacToe) boardFull() bool {
	for row := range g.board {
		for _, cell := range g.board[row] {
			if cell == "" {
				return false
			}
		}
	}
	return true
}
