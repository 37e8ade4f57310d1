package server

import (
	"time"

	"game-connect/server/internal/game"
)

// RunLoop drives the fixed-tick cycle until stop closes. The ticker supplies
// the sleep-for-the-remaining-budget behavior; dt is measured from real
// elapsed time so a delayed tick still advances the simulation correctly.
func (h *Hub) RunLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(h.cfg.TickRate)
			}
			last = now
			h.tick(now, dt)
		}
	}
}

// tick runs one loop iteration: sweep inactive players, check the turn
// timeout, advance the rule set, then either announce the end of the game
// or unicast each player's view. With no game running, fall back to the
// periodic lobby push. All sends are queued, never awaited.
func (h *Hub) tick(now time.Time, dt float64) {
	started := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := now.Add(-h.cfg.InactivityTimeout)
	for _, playerID := range h.registry.InactiveSince(cutoff) {
		h.metrics.IncTimedOut()
		h.log.Infow("player timed out from inactivity", "player", playerID)
		h.removePlayerLocked(playerID, "inactivity_timeout")
	}

	switch {
	case h.inProgress:
		status := h.game.Status()
		if !status.Over {
			if h.gameCfg.Mode == game.ModeTurnBased {
				if current, advanced := h.sched.CheckTimeout(now); advanced {
					h.log.Infow("turn timed out", "next", current)
					h.broadcastLocked(TurnChange{
						Type:     "turn_change",
						PlayerID: current,
						Reason:   "timeout",
					})
				}
			}
			h.game.Update(h.registry.Inputs(), dt)
			status = h.game.Status()
		}

		if status.Over {
			h.inProgress = false
			h.waiting = h.registry.Len() > 0
			h.sched.Reset()
			h.registry.ClearReady()
			h.log.Infow("game over", "winner", status.Winner)
			h.broadcastLocked(GameOver{Type: "game_over", Winner: status.Winner})
		} else {
			h.pushViewsLocked()
		}
	case h.waiting:
		h.maybeBroadcastLobbyLocked(now)
	}

	h.metrics.AddTick(time.Since(started).Nanoseconds())
}

// pushViewsLocked unicasts each player's projection of the game state,
// augmented with turn information for turn-based sessions.
func (h *Hub) pushViewsLocked() {
	current, hasTurn := h.sched.CurrentPlayer()
	for _, playerID := range h.registry.IDs() {
		msg := GameStateUpdate{
			Type:  "game_state",
			State: h.game.ViewFor(playerID),
		}
		if h.gameCfg.Mode == game.ModeTurnBased && hasTurn {
			msg.CurrentPlayer = current
			yours := current == playerID
			msg.IsYourTurn = &yours
		}
		h.sendToLocked(playerID, msg)
	}
}
