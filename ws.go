package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewHTTPHandler wires the websocket endpoint plus the operational
// endpoints onto one mux.
func NewHTTPHandler(hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/diagnostics", hub.handleDiagnostics)
	return mux
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	sub := newSubscriber(conn)
	go sub.writePump()
	h.readLoop(conn, sub)
}

// readLoop decodes inbound envelopes and routes them by type. The player id
// is bound to the connection by the first successful join; the connection
// closing tears the player down.
func (h *Hub) readLoop(conn *websocket.Conn, sub *subscriber) {
	playerID := ""
	defer func() {
		if playerID != "" {
			h.Disconnect(playerID)
		} else {
			sub.close()
		}
	}()

	conn.SetReadLimit(maxMessageBytes)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.log.Warnw("discarding malformed message", "error", err)
			continue
		}

		if msg.Type == "join" {
			if playerID != "" {
				h.log.Warnw("duplicate join on connection", "player", playerID)
				continue
			}
			if id, ok := h.Join(sub); ok {
				playerID = id
			}
			continue
		}
		if playerID == "" {
			// Everything but join requires an established session.
			continue
		}

		switch msg.Type {
		case "input":
			h.HandleInput(playerID, msg.Keys)
		case "set_username":
			h.HandleUsername(playerID, msg.Username)
		case "ready":
			h.HandleReady(playerID)
		case "move":
			h.HandleMove(playerID, msg.Move)
		case "chat":
			h.HandleChat(playerID, msg.Text)
		default:
			h.log.Warnw("unknown message type", "type", msg.Type, "player", playerID)
		}
	}
}

type diagnosticsPlayer struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Ready        bool   `json:"ready"`
	LastActivity int64  `json:"lastActivity"`
}

// DiagnosticsSnapshot exposes per-player activity for the diagnostics
// endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsPlayer {
	h.mu.Lock()
	defer h.mu.Unlock()

	players := make([]diagnosticsPlayer, 0, h.registry.Len())
	for _, id := range h.registry.IDs() {
		state, ok := h.registry.Get(id)
		if !ok {
			continue
		}
		players = append(players, diagnosticsPlayer{
			ID:           state.ID,
			Username:     state.Username,
			Ready:        state.Ready,
			LastActivity: state.lastActivity.UnixMilli(),
		})
	}
	return players
}

func (h *Hub) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		Status     string              `json:"status"`
		ServerTime int64               `json:"serverTime"`
		TickRate   int                 `json:"tickRate"`
		GameMode   string              `json:"gameMode"`
		InProgress bool                `json:"gameInProgress"`
		Players    []diagnosticsPlayer `json:"players"`
		Metrics    map[string]any      `json:"metrics"`
	}{
		Status:     "ok",
		ServerTime: time.Now().UnixMilli(),
		TickRate:   h.cfg.TickRate,
		GameMode:   string(h.gameCfg.Mode),
		InProgress: h.InProgress(),
		Players:    h.DiagnosticsSnapshot(),
		Metrics:    h.metrics.Snapshot(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
