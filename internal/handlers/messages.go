// internal/handlers/messages.go
package handlers

import "time"

// Recognized request actions.
const (
	ActionCreateGame   = "create_game"
	ActionJoinGame     = "join_game"
	ActionStartGame    = "start_game"
	ActionPlayCard     = "play_card"
	ActionDrawCard     = "draw_card"
	ActionChooseColor  = "choose_color"
	ActionGetGameState = "get_game_state"
	ActionListGames    = "list_games"
	ActionPing         = "ping"
)

// Server-initiated push notification event types, fanned out to all current
// members of the relevant game.
const (
	EventPlayerJoinedGame   = "player_joined_game"
	EventPlayerDisconnected = "player_disconnected"
	EventGameStarted        = "game_started"
	EventCardPlayed         = "card_played"
	EventCardDrawn          = "card_drawn"
	EventColorChosen        = "color_chosen"
	EventGameEnded          = "game_ended"
	EventGameStateUpdate    = "game_state_update"
)

// Response type values for direct replies.
const (
	TypeConnection   = "connection"
	TypeGameCreated  = "game_created"
	TypePlayerJoined = "player_joined"
	TypeGameState    = "game_state"
	TypeGameList     = "game_list"
	TypePong         = "pong"
	TypeError        = "error"
)

// Request is the single inbound envelope, one per client message. Fields
// beyond action are populated per-action; validation happens in the
// dispatcher.
type Request struct {
	Action      string `json:"action"`
	PlayerID    string `json:"playerId,omitempty"`
	GameID      string `json:"gameId,omitempty"`
	PlayerName  string `json:"playerName,omitempty"`
	CardIndex   *int   `json:"cardIndex,omitempty"`
	ChosenColor string `json:"chosenColor,omitempty"`
	Color       string `json:"color,omitempty"`

	// Room metadata carried by create_game only.
	RoomName       string `json:"roomName,omitempty"`
	HostPlayerID   string `json:"hostPlayerId,omitempty"`
	HostPlayerName string `json:"hostPlayerName,omitempty"`
	MaxPlayers     int    `json:"maxPlayers,omitempty"`
}

// Response is a direct reply to a single request.
type Response struct {
	Type      string      `json:"type"`
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Notification is a server-initiated push, not tied to a request.
type Notification struct {
	Type      string      `json:"type"`
	GameID    string      `json:"gameId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func newResponse(typ string, success bool, message string, data interface{}) Response {
	return Response{
		Type:      typ,
		Success:   success,
		Message:   message,
		Data:      data,
		Timestamp: nowMillis(),
	}
}

func newNotification(typ, gameID string, data interface{}) Notification {
	return Notification{
		Type:      typ,
		GameID:    gameID,
		Data:      data,
		Timestamp: nowMillis(),
	}
}

// failureType derives the reply type for a failed action, e.g.
// "play_card_failed".
func failureType(action string) string {
	return action + "_failed"
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
