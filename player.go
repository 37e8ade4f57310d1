package server

import (
	"time"

	"game-connect/server/internal/game"
)

// Player is the wire-visible slice of a connected player, as it appears in
// lobby snapshots.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
}

// playerState is the registry's full record for one player. The embedded
// Player is what snapshots copy out; the rest is server-side bookkeeping.
type playerState struct {
	Player
	keys         game.Keys
	lastActivity time.Time
}

// snapshot copies the wire-visible fields.
func (s *playerState) snapshot() Player {
	return s.Player
}

// touch refreshes the activity clock. Every inbound message from the player
// lands here.
func (s *playerState) touch(now time.Time) {
	s.lastActivity = now
}
