// internal/handlers/game_ws_test.go
package handlers

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navaplaystudios/uno-server/internal/game"
)

// testClient wires a dispatcher client to an in-memory sink instead of a live
// websocket.
type testClient struct {
	*client
	sent []interface{}
}

func newTestClient(gs *GameServer) *testClient {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tc := &testClient{}
	tc.client = &client{
		server: gs,
		logger: logger,
		remote: "test",
	}
	tc.client.write = func(v interface{}) {
		tc.sent = append(tc.sent, v)
	}
	return tc
}

func newTestServer() *GameServer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGameServer(logger)
}

func (tc *testClient) lastResponse(t *testing.T) Response {
	t.Helper()
	require.NotEmpty(t, tc.sent)
	resp, ok := tc.sent[len(tc.sent)-1].(Response)
	require.True(t, ok, "last message is not a Response: %#v", tc.sent[len(tc.sent)-1])
	return resp
}

func TestDispatchUnknownAction(t *testing.T) {
	tc := newTestClient(newTestServer())
	tc.handleRequest(&Request{Action: "teleport"})

	resp := tc.lastResponse(t)
	assert.Equal(t, TypeError, resp.Type)
	assert.False(t, resp.Success)
}

func TestInvalidJSONKeepsConnectionUsable(t *testing.T) {
	tc := newTestClient(newTestServer())

	tc.handleMessage([]byte("{not json"))
	resp := tc.lastResponse(t)
	assert.Equal(t, TypeError, resp.Type)
	assert.False(t, resp.Success)

	// The next well-formed message is still processed.
	tc.handleMessage([]byte(`{"action":"create_game"}`))
	resp = tc.lastResponse(t)
	assert.Equal(t, TypeGameCreated, resp.Type)
	assert.True(t, resp.Success)
}

func TestHandleCreateGame(t *testing.T) {
	gs := newTestServer()
	tc := newTestClient(gs)

	tc.handleRequest(&Request{
		Action:         ActionCreateGame,
		RoomName:       "Friday Night",
		HostPlayerID:   "p1",
		HostPlayerName: "Alice",
		MaxPlayers:     2,
	})

	resp := tc.lastResponse(t)
	require.Equal(t, TypeGameCreated, resp.Type)
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.Timestamp)

	data := resp.Data.(map[string]interface{})
	gameID := data["gameId"].(string)
	require.NotEmpty(t, gameID)

	room, ok := gs.Rooms.Get(gameID)
	require.True(t, ok)
	assert.Equal(t, "Friday Night", room.RoomName)
	assert.Equal(t, 2, room.MaxPlayers)
}

func TestHandleCreateGameDefaults(t *testing.T) {
	gs := newTestServer()
	tc := newTestClient(gs)

	tc.handleRequest(&Request{Action: ActionCreateGame})

	resp := tc.lastResponse(t)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "UNO Room", data["roomName"])
	assert.Equal(t, game.MaxPlayers, data["maxPlayers"])
}

func TestHandleCreateGameClampsMaxPlayers(t *testing.T) {
	gs := newTestServer()
	tc := newTestClient(gs)

	tc.handleRequest(&Request{Action: ActionCreateGame, MaxPlayers: 10})

	resp := tc.lastResponse(t)
	data := resp.Data.(map[string]interface{})
	gameID := data["gameId"].(string)
	assert.Equal(t, game.MaxPlayers, data["maxPlayers"], "advertised capacity matches the seating limit")

	room, ok := gs.Rooms.Get(gameID)
	require.True(t, ok)
	assert.Equal(t, game.MaxPlayers, room.MaxPlayers)
}

func TestHandleJoinGameValidation(t *testing.T) {
	tc := newTestClient(newTestServer())

	tc.handleRequest(&Request{Action: ActionJoinGame, GameID: "g", PlayerID: "p"})
	resp := tc.lastResponse(t)
	assert.Equal(t, "join_game_failed", resp.Type)
	assert.False(t, resp.Success)
}

func TestHandleJoinGameUnknownGame(t *testing.T) {
	tc := newTestClient(newTestServer())

	tc.handleRequest(&Request{Action: ActionJoinGame, GameID: "missing", PlayerID: "p1", PlayerName: "Alice"})
	resp := tc.lastResponse(t)
	assert.Equal(t, "join_game_failed", resp.Type)
	assert.Equal(t, "game not found", resp.Message)
}

// createAndJoin runs create_game plus a join for each player, returning the
// game id.
func createAndJoin(t *testing.T, gs *GameServer, clients ...*testClient) string {
	t.Helper()
	require.NotEmpty(t, clients)

	clients[0].handleRequest(&Request{Action: ActionCreateGame})
	data := clients[0].lastResponse(t).Data.(map[string]interface{})
	gameID := data["gameId"].(string)

	for i, tc := range clients {
		id := seatID(i)
		tc.handleRequest(&Request{
			Action:     ActionJoinGame,
			GameID:     gameID,
			PlayerID:   id,
			PlayerName: "Player " + id,
		})
		resp := tc.lastResponse(t)
		require.Equal(t, TypePlayerJoined, resp.Type, "join failed: %s", resp.Message)
	}
	return gameID
}

// seatID maps seat 0, 1, 2 to "a", "b", "c".
func seatID(i int) string {
	return string(rune('a' + i))
}

func TestHandleJoinGameBindsPlayer(t *testing.T) {
	gs := newTestServer()
	tc := newTestClient(gs)
	gameID := createAndJoin(t, gs, tc)

	assert.Equal(t, "a", tc.playerID)
	mapped, ok := gs.Manager.GameIDFor("a")
	require.True(t, ok)
	assert.Equal(t, gameID, mapped)

	// A second join for another player over the same connection is refused.
	tc.handleRequest(&Request{Action: ActionJoinGame, GameID: gameID, PlayerID: "z", PlayerName: "Zoe"})
	resp := tc.lastResponse(t)
	assert.Equal(t, "join_game_failed", resp.Type)
}

func TestHandleStartAndGetGameState(t *testing.T) {
	gs := newTestServer()
	a, b := newTestClient(gs), newTestClient(gs)
	gameID := createAndJoin(t, gs, a, b)

	a.handleRequest(&Request{Action: ActionStartGame, GameID: gameID, PlayerID: "a"})
	g, ok := gs.Manager.GetGame(gameID)
	require.True(t, ok)
	assert.Equal(t, game.StateInProgress, g.Status())

	b.handleRequest(&Request{Action: ActionGetGameState, PlayerID: "b"})
	resp := b.lastResponse(t)
	require.Equal(t, TypeGameState, resp.Type)

	snap, ok := resp.Data.(*game.Snapshot)
	require.True(t, ok)
	assert.Equal(t, gameID, snap.GameID)
	assert.Equal(t, game.StateInProgress, snap.GameState)

	for _, ps := range snap.Players {
		if ps.ID == "b" {
			assert.Len(t, ps.Hand, ps.HandSize)
		} else {
			assert.Nil(t, ps.Hand)
		}
	}
}

func TestHandleStartGameTooFewPlayers(t *testing.T) {
	gs := newTestServer()
	a := newTestClient(gs)
	gameID := createAndJoin(t, gs, a)

	a.handleRequest(&Request{Action: ActionStartGame, GameID: gameID, PlayerID: "a"})
	resp := a.lastResponse(t)
	assert.Equal(t, "start_game_failed", resp.Type)
	assert.Equal(t, "at least 2 players are required", resp.Message)
}

func TestHandlePlayCardValidation(t *testing.T) {
	tc := newTestClient(newTestServer())

	tc.handleRequest(&Request{Action: ActionPlayCard, PlayerID: "a"})
	resp := tc.lastResponse(t)
	assert.Equal(t, "play_card_failed", resp.Type)

	idx := 0
	tc.handleRequest(&Request{Action: ActionPlayCard, PlayerID: "a", CardIndex: &idx, ChosenColor: "MAUVE"})
	resp = tc.lastResponse(t)
	assert.Equal(t, "play_card_failed", resp.Type)
}

func TestHandleChooseColorValidation(t *testing.T) {
	tc := newTestClient(newTestServer())

	tc.handleRequest(&Request{Action: ActionChooseColor, PlayerID: "a", Color: "WILD"})
	resp := tc.lastResponse(t)
	assert.Equal(t, "choose_color_failed", resp.Type)
}

func TestHandleListGames(t *testing.T) {
	gs := newTestServer()
	a := newTestClient(gs)
	createAndJoin(t, gs, a)

	a.handleRequest(&Request{Action: ActionListGames})
	resp := a.lastResponse(t)
	require.Equal(t, TypeGameList, resp.Type)

	data := resp.Data.(map[string]interface{})
	listings := data["games"].([]RoomListing)
	require.Len(t, listings, 1)
	assert.Equal(t, 1, listings[0].PlayerCount)
	assert.Equal(t, StatusWaiting, listings[0].Status)
}

func TestHandlePing(t *testing.T) {
	gs := newTestServer()
	tc := newTestClient(gs)
	createAndJoin(t, gs, tc)

	tc.handleRequest(&Request{Action: ActionPing})
	pong, ok := tc.sent[len(tc.sent)-1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, TypePong, pong["type"])
	assert.Equal(t, "OK", pong["status"])
	assert.Equal(t, 1, pong["activeGames"])
}

func TestEnvelopeJSONShape(t *testing.T) {
	resp := newResponse(TypeGameCreated, true, "ok", map[string]interface{}{"gameId": "g1"})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "game_created", decoded["type"])
	assert.Equal(t, true, decoded["success"])
	assert.Contains(t, decoded, "timestamp")

	note := newNotification(EventCardPlayed, "g1", nil)
	raw, err = json.Marshal(note)
	require.NoError(t, err)
	// Unmarshal merges into a non-nil map; decode into a fresh one.
	decoded = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "card_played", decoded["type"])
	assert.Equal(t, "g1", decoded["gameId"])
	assert.NotContains(t, decoded, "data", "empty data is omitted")
}

func TestFailureType(t *testing.T) {
	assert.Equal(t, "play_card_failed", failureType(ActionPlayCard))
	assert.Equal(t, "join_game_failed", failureType(ActionJoinGame))
}
