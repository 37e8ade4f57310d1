package server

import (
	"encoding/json"
	"strings"
	"testing"

	"game-connect/server/internal/game"
)

func TestClientMessage_DecodesEveryVariant(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		check   func(t *testing.T, msg clientMessage)
	}{
		{
			name:    "join",
			payload: `{"type":"join"}`,
			check: func(t *testing.T, msg clientMessage) {
				if msg.Type != "join" {
					t.Fatalf("type = %q", msg.Type)
				}
			},
		},
		{
			name:    "input",
			payload: `{"type":"input","player_id":"p1","keys":["w"," "]}`,
			check: func(t *testing.T, msg clientMessage) {
				if len(msg.Keys) != 2 || msg.Keys[0] != "w" || msg.Keys[1] != " " {
					t.Fatalf("keys = %v", msg.Keys)
				}
			},
		},
		{
			name:    "set_username",
			payload: `{"type":"set_username","player_id":"p1","username":"alice"}`,
			check: func(t *testing.T, msg clientMessage) {
				if msg.Username != "alice" {
					t.Fatalf("username = %q", msg.Username)
				}
			},
		},
		{
			name:    "move",
			payload: `{"type":"move","player_id":"p1","move":{"row":0,"col":2}}`,
			check: func(t *testing.T, msg clientMessage) {
				if msg.Move["row"] != float64(0) || msg.Move["col"] != float64(2) {
					t.Fatalf("move = %v", msg.Move)
				}
			},
		},
		{
			name:    "chat",
			payload: `{"type":"chat","player_id":"p1","text":"hello"}`,
			check: func(t *testing.T, msg clientMessage) {
				if msg.Text != "hello" {
					t.Fatalf("text = %q", msg.Text)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var msg clientMessage
			if err := json.Unmarshal([]byte(tc.payload), &msg); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			tc.check(t, msg)
		})
	}
}

func TestGameOver_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(GameOver{Type: "game_over"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	encoded := string(data)
	if strings.Contains(encoded, "winner") || strings.Contains(encoded, "reason") {
		t.Fatalf("draw game_over leaked empty fields: %s", encoded)
	}
}

func TestTurnChange_OmitsEmptyReason(t *testing.T) {
	data, err := json.Marshal(TurnChange{Type: "turn_change", PlayerID: "p1"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "reason") {
		t.Fatalf("ordinary turn_change leaked a reason field: %s", data)
	}
}

func TestGameStateUpdate_TurnFieldsOnlyWhenSet(t *testing.T) {
	plain, err := json.Marshal(GameStateUpdate{Type: "game_state", State: game.View{}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(plain), "is_your_turn") || strings.Contains(string(plain), "current_player") {
		t.Fatalf("real-time update leaked turn fields: %s", plain)
	}

	yours := false
	turnBased, err := json.Marshal(GameStateUpdate{
		Type:          "game_state",
		State:         game.View{},
		CurrentPlayer: "p1",
		IsYourTurn:    &yours,
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	// A false is_your_turn must still reach the client.
	if !strings.Contains(string(turnBased), `"is_your_turn":false`) {
		t.Fatalf("false is_your_turn dropped from payload: %s", turnBased)
	}
}
