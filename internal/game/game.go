// Package game defines the contract every pluggable rule set implements and
// the session lifecycle state shared by all of them. The server core drives
// rule sets exclusively through the State interface; it never needs to know
// which concrete game is running.
package game

import "time"

// Mode selects how player actions are scheduled.
type Mode string

const (
	ModeRealTime  Mode = "real_time"
	ModeTurnBased Mode = "turn_based"
)

// Config describes a rule set's session parameters.
type Config struct {
	MinPlayers int
	MaxPlayers int // 0 means unbounded
	Mode       Mode
	// TurnTimeout overrides the server-wide turn timeout for turn-based
	// games. Zero means use the server default.
	TurnTimeout time.Duration
}

// Status carries the lifecycle flags of a running session. Started and Over
// are never both true; Winner is only set while Over is true.
type Status struct {
	Started bool
	Over    bool
	Winner  string // empty means no winner (draw or abandoned)
}

// Keys is the set of input symbols a player currently holds active. It is
// replaced wholesale on every input message, never merged.
type Keys map[string]struct{}

// NewKeys builds a key set from the symbols of an input message.
func NewKeys(symbols []string) Keys {
	keys := make(Keys, len(symbols))
	for _, s := range symbols {
		keys[s] = struct{}{}
	}
	return keys
}

// Has reports whether the symbol is currently active. Safe on a nil set.
func (k Keys) Has(symbol string) bool {
	_, ok := k[symbol]
	return ok
}

// Inputs maps player id to that player's active key set.
type Inputs map[string]Keys

// Result is the outcome of a move attempt. It always contains a "valid"
// bool; invalid results carry a "reason" string and valid results may carry
// arbitrary move details. Marshalled as-is into move_result messages.
type Result map[string]any

// IsValid reports whether the move was accepted.
func (r Result) IsValid() bool {
	valid, _ := r["valid"].(bool)
	return valid
}

// Reason returns the rejection reason, if any.
func (r Result) Reason() string {
	reason, _ := r["reason"].(string)
	return reason
}

// Invalid builds a rejection result. Invalid moves never mutate game state.
func Invalid(reason string) Result {
	return Result{"valid": false, "reason": reason}
}

// Valid builds an acceptance result with optional move details.
func Valid(detail map[string]any) Result {
	result := Result{"valid": true}
	for key, value := range detail {
		result[key] = value
	}
	return result
}

// View is the per-player projection of shared game state. Projections must
// never leak another player's private information and must be free of side
// effects: calling ViewFor twice without an intervening Update returns
// identical content.
type View map[string]any

// State is the contract a pluggable rule set satisfies. Implementations are
// not required to be safe for concurrent use; the server serializes all
// calls behind its session lock.
type State interface {
	// Config returns the static session parameters of the rule set.
	Config() Config

	// AddPlayer and RemovePlayer keep per-player bookkeeping in sync with
	// the player registry. Both must be safe before and after Start, and
	// RemovePlayer must tolerate ids it has never seen.
	AddPlayer(id string)
	RemovePlayer(id string)

	// Start transitions the session to started and resets any per-round
	// state. playerIDs holds every registered player at start time.
	Start(playerIDs []string)

	// Update advances the simulation (real-time) or checks terminal
	// conditions (turn-based). It must set the session over exactly once
	// when a terminal condition is reached and must not mutate anything
	// afterwards.
	Update(inputs Inputs, dt float64)

	// HandleMove validates and applies a move. Malformed payloads yield an
	// invalid Result, never a panic or error. Only a valid move may mutate
	// state. Turn ownership is enforced by the caller before this is
	// reached.
	HandleMove(playerID string, move map[string]any) Result

	// ViewFor projects the shared state for one player.
	ViewFor(playerID string) View

	// Status reports the session lifecycle flags.
	Status() Status

	// End force-terminates the session, e.g. when every player has
	// disconnected. An empty winner records a draw or abandonment.
	End(winner string)
}

// CanStart reports whether a session with cfg may begin with playerCount
// players: not already started, at least MinPlayers, and within MaxPlayers
// when bounded.
func CanStart(cfg Config, status Status, playerCount int) bool {
	if status.Started {
		return false
	}
	if playerCount < cfg.MinPlayers {
		return false
	}
	if cfg.MaxPlayers > 0 && playerCount > cfg.MaxPlayers {
		return false
	}
	return true
}

// Session implements the lifecycle half of State. Rule sets embed it and
// provide the game-specific methods themselves.
type Session struct {
	started bool
	over    bool
	winner  string
}

// Status returns the current lifecycle flags.
func (s *Session) Status() Status {
	return Status{Started: s.started, Over: s.over, Winner: s.winner}
}

// Begin marks the session started and clears any previous outcome.
func (s *Session) Begin() {
	s.started = true
	s.over = false
	s.winner = ""
}

// End marks the session over with an optional winner. Idempotent: once over,
// later calls are ignored so the first recorded outcome stands.
func (s *Session) End(winner string) {
	if s.over {
		return
	}
	s.started = false
	s.over = true
	s.winner = winner
}

// Over reports whether the session has ended.
func (s *Session) Over() bool {
	return s.over
}

// Reset clears the lifecycle flags so the session can be replayed. Rule sets
// reset their own round state in Start.
func (s *Session) Reset() {
	s.started = false
	s.over = false
	s.winner = ""
}
