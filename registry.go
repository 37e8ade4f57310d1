package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"game-connect/server/internal/game"
)

// Registry owns the set of connected players and their mutable state. It is
// not safe for concurrent use on its own; every caller holds the hub lock.
type Registry struct {
	players map[string]*playerState
	order   []string // join order, for stable lobby snapshots
}

func newRegistry() *Registry {
	return &Registry{players: make(map[string]*playerState)}
}

// Add allocates a fresh unique id and registers the player. The default
// username is derived from the id the same way clients will see it.
func (r *Registry) Add(now time.Time) *playerState {
	id := uuid.NewString()
	state := &playerState{
		Player: Player{
			ID:       id,
			Username: fmt.Sprintf("Player-%s", id[:6]),
		},
		keys:         game.Keys{},
		lastActivity: now,
	}
	r.players[id] = state
	r.order = append(r.order, id)
	return state
}

// Remove deletes the player. Idempotent: removing an absent id is a no-op.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get looks up a player's state.
func (r *Registry) Get(id string) (*playerState, bool) {
	state, ok := r.players[id]
	return state, ok
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	return len(r.players)
}

// IDs returns the player ids in join order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// SetUsername updates the display name and touches activity.
func (r *Registry) SetUsername(id, username string, now time.Time) bool {
	state, ok := r.players[id]
	if !ok || username == "" {
		return false
	}
	state.Username = username
	state.touch(now)
	return true
}

// SetReady marks the player ready and touches activity.
func (r *Registry) SetReady(id string, now time.Time) bool {
	state, ok := r.players[id]
	if !ok {
		return false
	}
	state.Ready = true
	state.touch(now)
	return true
}

// ClearReady resets every ready flag, forcing an explicit re-ready before a
// rematch.
func (r *Registry) ClearReady() {
	for _, state := range r.players {
		state.Ready = false
	}
}

// AllReady reports whether every registered player has readied up.
func (r *Registry) AllReady() bool {
	for _, state := range r.players {
		if !state.Ready {
			return false
		}
	}
	return true
}

// UpdateKeys replaces the player's active input set wholesale.
func (r *Registry) UpdateKeys(id string, symbols []string, now time.Time) bool {
	state, ok := r.players[id]
	if !ok {
		return false
	}
	state.keys = game.NewKeys(symbols)
	state.touch(now)
	return true
}

// Touch refreshes the player's activity clock.
func (r *Registry) Touch(id string, now time.Time) bool {
	state, ok := r.players[id]
	if !ok {
		return false
	}
	state.touch(now)
	return true
}

// Snapshot copies the wire-visible player list in join order.
func (r *Registry) Snapshot() []Player {
	players := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		if state, ok := r.players[id]; ok {
			players = append(players, state.snapshot())
		}
	}
	return players
}

// Inputs collects every player's active key set for a game update.
func (r *Registry) Inputs() game.Inputs {
	inputs := make(game.Inputs, len(r.players))
	for id, state := range r.players {
		inputs[id] = state.keys
	}
	return inputs
}

// InactiveSince returns the players whose last activity predates the cutoff.
func (r *Registry) InactiveSince(cutoff time.Time) []string {
	var stale []string
	for id, state := range r.players {
		if state.lastActivity.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	return stale
}
