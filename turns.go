package server

import (
	"math/rand"
	"time"

	"game-connect/server/internal/game"
)

// TurnScheduler owns the turn order of a turn-based session: whose turn it
// is, when it last changed, and how long a turn may run. Every method is a
// no-op for real-time sessions. Callers hold the hub lock.
type TurnScheduler struct {
	mode      game.Mode
	timeout   time.Duration
	order     []string
	current   int
	changedAt time.Time
}

// NewTurnScheduler creates a scheduler for the given mode. timeout bounds a
// single turn before it auto-advances.
func NewTurnScheduler(mode game.Mode, timeout time.Duration) *TurnScheduler {
	return &TurnScheduler{mode: mode, timeout: timeout}
}

// Start builds the turn order as a uniformly random permutation of the
// player ids and resets the pointer and clock.
func (s *TurnScheduler) Start(playerIDs []string, now time.Time) {
	if s.mode != game.ModeTurnBased {
		return
	}
	s.order = make([]string, len(playerIDs))
	copy(s.order, playerIDs)
	rand.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
	s.current = 0
	s.changedAt = now
}

// Reset clears the turn order between games.
func (s *TurnScheduler) Reset() {
	s.order = nil
	s.current = 0
}

// CurrentPlayer returns the id whose turn it is. The second return is false
// for real-time sessions and empty orders.
func (s *TurnScheduler) CurrentPlayer() (string, bool) {
	if s.mode != game.ModeTurnBased || len(s.order) == 0 {
		return "", false
	}
	return s.order[s.current], true
}

// Advance moves the pointer to the next player, modulo the order length,
// and resets the turn clock. A one-element order yields the same player
// again; ending the game on that condition is the rule set's job, not the
// scheduler's.
func (s *TurnScheduler) Advance(now time.Time) (string, bool) {
	if s.mode != game.ModeTurnBased || len(s.order) == 0 {
		return "", false
	}
	s.current = (s.current + 1) % len(s.order)
	s.changedAt = now
	return s.order[s.current], true
}

// CheckTimeout advances the turn when the current one has outlived the
// timeout. Returns the new current player and whether an advance happened.
// Only called while a turn-based game is running.
func (s *TurnScheduler) CheckTimeout(now time.Time) (string, bool) {
	if s.mode != game.ModeTurnBased || len(s.order) == 0 {
		return "", false
	}
	if now.Sub(s.changedAt) <= s.timeout {
		return "", false
	}
	return s.Advance(now)
}

// RemovePlayer takes a departed player out of the turn order. When the
// removed slot sits at or before the pointer, the pointer shifts back one so
// the "current" reference stays semantically stable. Returns whether the
// order changed and whether it is now empty (the session must then end with
// no winner).
func (s *TurnScheduler) RemovePlayer(id string) (removed, empty bool) {
	if s.mode != game.ModeTurnBased {
		return false, false
	}
	idx := -1
	for i, existing := range s.order {
		if existing == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, len(s.order) == 0
	}
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	if idx <= s.current && s.current > 0 {
		s.current--
	}
	return true, len(s.order) == 0
}
