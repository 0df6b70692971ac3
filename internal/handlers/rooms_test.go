// internal/handlers/rooms_test.go
package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navaplaystudios/uno-server/internal/game"
)

func TestRoomCapacityClamp(t *testing.T) {
	assert.Equal(t, 2, (&RoomInfo{MaxPlayers: 2}).Capacity())
	assert.Equal(t, game.MaxPlayers, (&RoomInfo{MaxPlayers: 0}).Capacity())
	assert.Equal(t, game.MaxPlayers, (&RoomInfo{MaxPlayers: 10}).Capacity(), "declared capacity never exceeds the seating limit")
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		state    game.GameState
		players  int
		capacity int
		want     RoomStatus
	}{
		{"waiting with free seats", game.StateWaitingForPlayers, 1, 3, StatusWaiting},
		{"waiting at capacity", game.StateWaitingForPlayers, 3, 3, StatusFull},
		{"in progress", game.StateInProgress, 2, 3, StatusPlaying},
		{"finished", game.StateFinished, 2, 3, StatusFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveStatus(tt.state, tt.players, tt.capacity))
		})
	}
}

func TestRoomStore(t *testing.T) {
	s := NewRoomStore()
	s.Add(&RoomInfo{GameID: "g1", RoomName: "One"})
	s.Add(&RoomInfo{GameID: "g2", RoomName: "Two"})

	room, ok := s.Get("g1")
	require.True(t, ok)
	assert.Equal(t, "One", room.RoomName)

	assert.Len(t, s.List(), 2)

	s.Delete("g1")
	_, ok = s.Get("g1")
	assert.False(t, ok)
	assert.Len(t, s.List(), 1)
}
