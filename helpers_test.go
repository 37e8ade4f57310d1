package server

import (
	"encoding/json"
	"testing"
	"time"

	"game-connect/server/internal/game"
	"game-connect/server/internal/games"
)

func testConfig() Config {
	return Config{
		Addr:              ":0",
		TickRate:          60,
		InactivityTimeout: 60 * time.Second,
		TurnTimeout:       60 * time.Second,
		LobbyInterval:     5 * time.Second,
	}
}

// newTestSubscriber builds a subscriber with no underlying connection; the
// hub only touches the send queue, so tests read enqueued messages straight
// from it.
func newTestSubscriber() *subscriber {
	return &subscriber{send: make(chan []byte, sendQueueSize)}
}

func newTicTacToeHub() *Hub {
	return NewHub(testConfig(), games.NewTicTacToe(), nil)
}

func newRaceHub() *Hub {
	return NewHub(testConfig(), games.NewRace(), nil)
}

// drainSubscriber decodes every queued message.
func drainSubscriber(t *testing.T, sub *subscriber) []map[string]any {
	t.Helper()
	var msgs []map[string]any
	for {
		select {
		case data, open := <-sub.send:
			if !open {
				return msgs
			}
			var msg map[string]any
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("failed to decode queued message: %v", err)
			}
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// lastOfType returns the last drained message with the given type tag.
func lastOfType(msgs []map[string]any, typ string) (map[string]any, bool) {
	var found map[string]any
	for _, msg := range msgs {
		if msg["type"] == typ {
			found = msg
		}
	}
	return found, found != nil
}

// mustJoin joins a fresh test subscriber and fails the test on rejection.
func mustJoin(t *testing.T, hub *Hub) (string, *subscriber) {
	t.Helper()
	sub := newTestSubscriber()
	id, ok := hub.Join(sub)
	if !ok {
		t.Fatalf("join rejected")
	}
	return id, sub
}

// startTicTacToe joins two players and readies both, returning them in turn
// order: current first.
func startTicTacToe(t *testing.T, hub *Hub) (current, other string, subs map[string]*subscriber) {
	t.Helper()
	id1, sub1 := mustJoin(t, hub)
	id2, sub2 := mustJoin(t, hub)
	hub.HandleReady(id1)
	hub.HandleReady(id2)
	if !hub.InProgress() {
		t.Fatalf("game did not start with two ready players")
	}

	current, ok := hub.sched.CurrentPlayer()
	if !ok {
		t.Fatalf("no current player after start")
	}
	other = id1
	if current == id1 {
		other = id2
	}
	return current, other, map[string]*subscriber{id1: sub1, id2: sub2}
}

func moveAt(row, col int) map[string]any {
	return map[string]any{"row": float64(row), "col": float64(col)}
}

// viewsJSON captures every player's view for change detection.
func viewsJSON(t *testing.T, hub *Hub, ids ...string) string {
	t.Helper()
	views := make(map[string]game.View, len(ids))
	for _, id := range ids {
		views[id] = hub.game.ViewFor(id)
	}
	data, err := json.Marshal(views)
	if err != nil {
		t.Fatalf("failed to marshal views: %v", err)
	}
	return string(data)
}
