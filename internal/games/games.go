// Package games holds the built-in rule sets. Each one satisfies
// game.State; the server picks one at startup by name.
package games

import (
	"fmt"

	"game-connect/server/internal/game"
)

// New returns the rule set registered under name.
func New(name string) (game.State, error) {
	switch name {
	case "tictactoe":
		return NewTicTacToe(), nil
	case "race":
		return NewRace(), nil
	default:
		return nil, fmt.Errorf("unknown rule set %q", name)
	}
}

// intField extracts an integral field from a decoded JSON move payload.
// JSON numbers arrive as float64; anything else, or a fractional value,
// fails the lookup.
func intField(move map[string]any, key string) (int, bool) {
	value, ok := move[key]
	if !ok {
		return 0, false
	}
	number, ok := value.(float64)
	if !ok {
		return 0, false
	}
	n := int(number)
	if float64(n) != number {
		return 0, false
	}
	return n, true
}
