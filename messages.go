package server

import "game-connect/server/internal/game"

// Inbound envelope. Type selects which of the remaining fields matter; the
// player id is bound to the connection at join time, so the PlayerID field
// is informational only.
type clientMessage struct {
	Type     string         `json:"type"`
	PlayerID string         `json:"player_id,omitempty"`
	Keys     []string       `json:"keys,omitempty"`
	Username string         `json:"username,omitempty"`
	Move     map[string]any `json:"move,omitempty"`
	Text     string         `json:"text,omitempty"`
}

// Server-pushed messages. One struct per wire type; the Type field always
// carries the tag the client switches on.

// ConnectionEstablished acknowledges a successful join.
type ConnectionEstablished struct {
	Type              string `json:"type"`
	PlayerID          string `json:"player_id"`
	GameMode          string `json:"game_mode"`
	MinPlayers        int    `json:"min_players"`
	MaxPlayers        int    `json:"max_players"`
	GameInProgress    bool   `json:"game_in_progress"`
	WaitingForPlayers bool   `json:"waiting_for_players"`
	PlayerCount       int    `json:"player_count"`
}

// JoinRejected tells one requester why their join was refused.
type JoinRejected struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// LobbyState is the periodic lobby snapshot pushed while waiting.
type LobbyState struct {
	Type              string   `json:"type"`
	PlayerCount       int      `json:"player_count"`
	MinPlayers        int      `json:"min_players"`
	MaxPlayers        int      `json:"max_players"`
	WaitingForPlayers bool     `json:"waiting_for_players"`
	GameInProgress    bool     `json:"game_in_progress"`
	Players           []Player `json:"players"`
}

// GameStarting announces the lobby-to-game transition.
type GameStarting struct {
	Type        string `json:"type"`
	PlayerCount int    `json:"player_count"`
}

// TurnChange announces the new current player. Reason is set for timeout
// and disconnect advances, absent for ordinary ones.
type TurnChange struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason,omitempty"`
}

// MoveResult echoes a move verdict back to the requesting player only.
type MoveResult struct {
	Type   string      `json:"type"`
	Result game.Result `json:"result"`
}

// ChatBroadcast relays a chat line to every player.
type ChatBroadcast struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// GameStateUpdate unicasts one player's view of the running game. The turn
// fields are only populated for turn-based sessions.
type GameStateUpdate struct {
	Type          string    `json:"type"`
	State         game.View `json:"state"`
	CurrentPlayer string    `json:"current_player,omitempty"`
	IsYourTurn    *bool     `json:"is_your_turn,omitempty"`
}

// GameOver announces the end of a game. Winner is empty on a draw; Reason
// is set when the game ended for a non-gameplay cause.
type GameOver struct {
	Type   string `json:"type"`
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
}
