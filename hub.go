package server

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"game-connect/server/internal/game"
)

// Hub owns the single game session: the player registry, the running rule
// set, the turn scheduler, and the live connections. One mutex guards all of
// it — inbound message handling and the tick loop take turns, per-connection
// sends are queued and never awaited.
type Hub struct {
	mu sync.Mutex

	cfg     Config
	log     *zap.SugaredLogger
	metrics *Metrics

	registry    *Registry
	game        game.State
	gameCfg     game.Config
	sched       *TurnScheduler
	subscribers map[string]*subscriber

	waiting            bool
	inProgress         bool
	lastLobbyBroadcast time.Time
}

// NewHub wires a hub around the given rule set. A nil logger is replaced by
// a no-op one so tests can skip logging setup.
func NewHub(cfg Config, state game.State, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	gameCfg := state.Config()
	timeout := gameCfg.TurnTimeout
	if timeout <= 0 {
		timeout = cfg.TurnTimeout
	}
	return &Hub{
		cfg:         cfg,
		log:         log,
		metrics:     &Metrics{},
		registry:    newRegistry(),
		game:        state,
		gameCfg:     gameCfg,
		sched:       NewTurnScheduler(gameCfg.Mode, timeout),
		subscribers: make(map[string]*subscriber),
	}
}

// Join registers a new player on the given connection. The player is added
// to the rule set before the acknowledgement goes out. Rejections are sent
// to the requester only; nobody else hears about them.
func (h *Hub) Join(sub *subscriber) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics.IncMessages()
	now := time.Now()

	count := h.registry.Len()
	if h.inProgress || (h.gameCfg.MaxPlayers > 0 && count >= h.gameCfg.MaxPlayers) {
		h.enqueueLocked("", sub, JoinRejected{
			Type:   "join_rejected",
			Reason: "Game is full or already in progress",
		})
		return "", false
	}

	state := h.registry.Add(now)
	h.game.AddPlayer(state.ID)
	h.subscribers[state.ID] = sub

	h.enqueueLocked(state.ID, sub, ConnectionEstablished{
		Type:              "connection_established",
		PlayerID:          state.ID,
		GameMode:          string(h.gameCfg.Mode),
		MinPlayers:        h.gameCfg.MinPlayers,
		MaxPlayers:        h.gameCfg.MaxPlayers,
		GameInProgress:    h.inProgress,
		WaitingForPlayers: h.waiting,
		PlayerCount:       h.registry.Len(),
	})
	h.log.Infow("player joined", "player", state.ID, "count", h.registry.Len())

	h.checkGameStartLocked(now)
	return state.ID, true
}

// Disconnect removes a player after their connection closed.
func (h *Hub) Disconnect(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removePlayerLocked(playerID, "connection_closed")
}

// HandleInput replaces the player's active input set.
func (h *Hub) HandleInput(playerID string, keys []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics.IncMessages()
	h.registry.UpdateKeys(playerID, keys, time.Now())
}

// HandleUsername updates the player's display name. Empty names are ignored.
func (h *Hub) HandleUsername(playerID, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics.IncMessages()
	if h.registry.SetUsername(playerID, username, time.Now()) {
		h.log.Infow("username set", "player", playerID, "username", username)
	}
}

// HandleReady marks the player ready and re-evaluates the lobby gate.
func (h *Hub) HandleReady(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics.IncMessages()
	now := time.Now()
	if h.registry.SetReady(playerID, now) {
		h.log.Infow("player ready", "player", playerID)
		h.checkGameStartLocked(now)
	}
}

// HandleMove validates a turn-based move: the scheduler gates turn
// ownership, the rule set gates everything else. The verdict goes back to
// the requesting player only; a valid move advances the turn and announces
// it to everyone.
func (h *Hub) HandleMove(playerID string, move map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics.IncMessages()
	now := time.Now()

	if _, ok := h.registry.Get(playerID); !ok {
		return
	}
	h.registry.Touch(playerID, now)
	if h.gameCfg.Mode != game.ModeTurnBased {
		return
	}

	var result game.Result
	status := h.game.Status()
	switch {
	case !h.inProgress || !status.Started || status.Over:
		result = game.Invalid("Game is not in progress")
	default:
		current, ok := h.sched.CurrentPlayer()
		if !ok || current != playerID {
			result = game.Invalid("Not your turn")
		} else {
			result = h.game.HandleMove(playerID, move)
		}
	}

	h.sendToLocked(playerID, MoveResult{Type: "move_result", Result: result})

	if result.IsValid() {
		if next, ok := h.sched.Advance(now); ok {
			h.broadcastLocked(TurnChange{Type: "turn_change", PlayerID: next})
		}
	}
}

// HandleChat relays a chat line to every player. Empty text is ignored.
func (h *Hub) HandleChat(playerID, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics.IncMessages()
	state, ok := h.registry.Get(playerID)
	if !ok || text == "" {
		return
	}
	state.touch(time.Now())
	h.broadcastLocked(ChatBroadcast{
		Type:     "chat",
		PlayerID: playerID,
		Username: state.Username,
		Text:     text,
	})
}

// removePlayerLocked tears a player down: connection, registry entry, rule
// set bookkeeping, and — mid-game — the turn order. Idempotent.
func (h *Hub) removePlayerLocked(playerID, cause string) {
	if sub, ok := h.subscribers[playerID]; ok {
		delete(h.subscribers, playerID)
		sub.close()
	}
	if !h.registry.Remove(playerID) {
		return
	}
	h.game.RemovePlayer(playerID)
	h.log.Infow("player removed", "player", playerID, "cause", cause)

	if !h.inProgress {
		return
	}
	status := h.game.Status()
	if h.gameCfg.Mode != game.ModeTurnBased || !status.Started || status.Over {
		return
	}

	removed, empty := h.sched.RemovePlayer(playerID)
	if !removed {
		return
	}
	if empty {
		h.game.End("")
		h.inProgress = false
		h.waiting = false
		h.sched.Reset()
		h.broadcastLocked(GameOver{Type: "game_over", Reason: "all_players_disconnected"})
		return
	}
	if current, ok := h.sched.CurrentPlayer(); ok {
		h.broadcastLocked(TurnChange{
			Type:     "turn_change",
			PlayerID: current,
			Reason:   "previous_player_disconnected",
		})
	}
}

// sendToLocked marshals and queues a message for one player. A missing or
// stale connection logs and drops; the caller never fails.
func (h *Hub) sendToLocked(playerID string, msg any) {
	sub, ok := h.subscribers[playerID]
	if !ok {
		h.log.Debugw("dropping message for absent connection", "player", playerID)
		return
	}
	h.enqueueLocked(playerID, sub, msg)
}

// broadcastLocked fans a message out to every connected player. The payload
// is marshalled once; one full queue never blocks delivery to the rest.
func (h *Hub) broadcastLocked(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorw("failed to marshal broadcast", "error", err)
		return
	}
	for playerID, sub := range h.subscribers {
		h.enqueueData(playerID, sub, data)
	}
}

func (h *Hub) enqueueLocked(playerID string, sub *subscriber, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorw("failed to marshal message", "player", playerID, "error", err)
		return
	}
	h.enqueueData(playerID, sub, data)
}

func (h *Hub) enqueueData(playerID string, sub *subscriber, data []byte) {
	if sub.enqueue(data) {
		h.metrics.IncEnqueued()
		return
	}
	h.metrics.IncDropped()
	h.log.Debugw("send queue full, dropping message", "player", playerID)
}

// Players returns the current lobby snapshot.
func (h *Hub) Players() []Player {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.Snapshot()
}

// InProgress reports whether a game is currently running.
func (h *Hub) InProgress() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inProgress
}
