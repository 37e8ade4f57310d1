package server

import (
	"time"

	"game-connect/server/internal/game"
)

// checkGameStartLocked gates the lobby-to-game transition. Invoked after
// every join and every ready change: the game starts if and only if the
// player count satisfies the rule set's bounds and every registered player
// is ready.
func (h *Hub) checkGameStartLocked(now time.Time) {
	if h.inProgress {
		return
	}
	count := h.registry.Len()
	if count < h.gameCfg.MinPlayers {
		h.waiting = true
		return
	}
	if !h.registry.AllReady() {
		h.waiting = true
		return
	}
	if !game.CanStart(h.gameCfg, h.game.Status(), count) {
		return
	}

	h.inProgress = true
	h.waiting = false
	playerIDs := h.registry.IDs()
	h.sched.Start(playerIDs, now)
	h.game.Start(playerIDs)
	h.log.Infow("game starting", "players", count)

	h.broadcastLocked(GameStarting{Type: "game_starting", PlayerCount: count})
	if current, ok := h.sched.CurrentPlayer(); ok {
		h.broadcastLocked(TurnChange{Type: "turn_change", PlayerID: current})
	}
}

// lobbyStateLocked builds the lobby snapshot message.
func (h *Hub) lobbyStateLocked() LobbyState {
	return LobbyState{
		Type:              "lobby_state",
		PlayerCount:       h.registry.Len(),
		MinPlayers:        h.gameCfg.MinPlayers,
		MaxPlayers:        h.gameCfg.MaxPlayers,
		WaitingForPlayers: h.waiting,
		GameInProgress:    h.inProgress,
		Players:           h.registry.Snapshot(),
	}
}

// maybeBroadcastLobbyLocked pushes the lobby snapshot when the broadcast
// interval has elapsed. This is the only push decoupled from game ticks, so
// lobby visibility does not depend on tick rate.
func (h *Hub) maybeBroadcastLobbyLocked(now time.Time) {
	if now.Sub(h.lastLobbyBroadcast) < h.cfg.LobbyInterval {
		return
	}
	h.lastLobbyBroadcast = now
	h.broadcastLocked(h.lobbyStateLocked())
}
