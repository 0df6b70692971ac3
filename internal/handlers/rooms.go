// internal/handlers/rooms.go
package handlers

import (
	"sync"

	"github.com/navaplaystudios/uno-server/internal/game"
)

// RoomStatus is the derived lobby-list status of a room.
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusFull     RoomStatus = "full"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// RoomInfo is presentation metadata declared at create_game time. It is kept
// apart from engine state: the rule engine never reads it.
type RoomInfo struct {
	GameID         string `json:"gameId"`
	RoomName       string `json:"roomName"`
	HostPlayerID   string `json:"hostPlayerId,omitempty"`
	HostPlayerName string `json:"hostPlayerName,omitempty"`
	MaxPlayers     int    `json:"maxPlayers"`
}

// RoomListing is one list_games entry: the static room info plus live player
// count and derived status.
type RoomListing struct {
	RoomInfo
	PlayerCount int        `json:"playerCount"`
	Status      RoomStatus `json:"status"`
}

// RoomStore holds room metadata for live games.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*RoomInfo
}

// NewRoomStore returns an empty store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*RoomInfo)}
}

// Add registers room metadata under its game id.
func (s *RoomStore) Add(room *RoomInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.GameID] = room
}

// Get returns the room metadata for a game id.
func (s *RoomStore) Get(gameID string) (*RoomInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[gameID]
	return r, ok
}

// Delete drops the room metadata for a torn-down game.
func (s *RoomStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, gameID)
}

// List returns a copy of all room metadata.
func (s *RoomStore) List() []*RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*RoomInfo, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}

// Capacity returns the effective seat count used for the "full" status: the
// declared max, clamped to the engine's fixed seating capacity.
func (r *RoomInfo) Capacity() int {
	if r.MaxPlayers <= 0 || r.MaxPlayers > game.MaxPlayers {
		return game.MaxPlayers
	}
	return r.MaxPlayers
}

// deriveStatus computes the lobby-list status from engine state and counts.
func deriveStatus(state game.GameState, playerCount, capacity int) RoomStatus {
	switch state {
	case game.StateFinished:
		return StatusFinished
	case game.StateInProgress:
		return StatusPlaying
	default:
		if playerCount >= capacity {
			return StatusFull
		}
		return StatusWaiting
	}
}
