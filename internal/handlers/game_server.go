// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/navaplaystudios/uno-server/internal/cache"
	"github.com/navaplaystudios/uno-server/internal/database"
	"github.com/navaplaystudios/uno-server/internal/game"
)

const writeTimeout = 3 * time.Second

// GameServer is the realtime gateway: it owns the session manager, the room
// metadata store and the playerId-to-connection registry. Connections are a
// presentation concern; the engine never sees them.
type GameServer struct {
	Manager *game.Manager
	Rooms   *RoomStore

	logger *logrus.Logger

	mu    sync.Mutex
	conns map[string]*websocket.Conn // playerId -> live connection
}

// NewGameServer wires a gateway around a fresh Manager and RoomStore.
func NewGameServer(logger *logrus.Logger) *GameServer {
	if logger == nil {
		logger = logrus.New()
	}
	return &GameServer{
		Manager: game.NewManager(logger),
		Rooms:   NewRoomStore(),
		logger:  logger,
		conns:   make(map[string]*websocket.Conn),
	}
}

// RegisterConn binds a player id to its live connection.
func (gs *GameServer) RegisterConn(playerID string, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.conns[playerID] = c
}

// UnregisterConn removes the binding if it still points at c.
func (gs *GameServer) UnregisterConn(playerID string, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.conns[playerID] == c {
		delete(gs.conns, playerID)
	}
}

// ConnCount returns the number of registered player connections.
func (gs *GameServer) ConnCount() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.conns)
}

func (gs *GameServer) connFor(playerID string) *websocket.Conn {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.conns[playerID]
}

// writeAsync sends pre-marshaled bytes to one connection without blocking the
// caller. Write failures are logged; the reader side detects closure.
func (gs *GameServer) writeAsync(c *websocket.Conn, data []byte, playerID string) {
	if c == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			gs.logger.WithFields(logrus.Fields{
				"playerId": playerID,
				"error":    err,
			}).Warn("Failed to write message to player")
		}
	}()
}

// SendToPlayer marshals v and delivers it to the player's connection, if any.
func (gs *GameServer) SendToPlayer(playerID string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		gs.logger.WithError(err).Error("Failed to marshal outbound message")
		return
	}
	gs.writeAsync(gs.connFor(playerID), data, playerID)
}

// NotifyGamePlayers fans a push notification out to every member of g.
func (gs *GameServer) NotifyGamePlayers(g *game.Game, event string, data interface{}) {
	gs.notify(g, event, data, "")
}

// NotifyOtherGamePlayers fans a push notification out to every member of g
// except the actor.
func (gs *GameServer) NotifyOtherGamePlayers(g *game.Game, excludePlayerID, event string, data interface{}) {
	gs.notify(g, event, data, excludePlayerID)
}

func (gs *GameServer) notify(g *game.Game, event string, data interface{}, exclude string) {
	msg, err := json.Marshal(newNotification(event, g.ID, data))
	if err != nil {
		gs.logger.WithError(err).Errorf("Failed to marshal %s notification", event)
		return
	}
	for _, playerID := range g.PlayerIDs() {
		if playerID == exclude {
			continue
		}
		gs.writeAsync(gs.connFor(playerID), msg, playerID)
	}
}

// BroadcastGameState sends each member of g their own redacted snapshot.
// Called exactly once after every successful mutating action, strictly after
// the mutation itself.
func (gs *GameServer) BroadcastGameState(g *game.Game) {
	for _, playerID := range g.PlayerIDs() {
		snap := g.Snapshot(playerID)
		gs.SendToPlayer(playerID, newResponse(EventGameStateUpdate, true, "game state", snap))
	}
}

// HandleDisconnect updates presence bookkeeping for a closed connection and
// notifies the remaining members of the player's game. When the last member
// disconnects, the game and its room metadata are reclaimed.
func (gs *GameServer) HandleDisconnect(playerID string, c *websocket.Conn) {
	gs.UnregisterConn(playerID, c)

	removal, ok := gs.Manager.RemovePlayer(playerID)
	if !ok {
		return
	}
	gs.logger.WithFields(logrus.Fields{
		"playerId": playerID,
		"gameId":   removal.GameID,
	}).Info("Player disconnected from game")

	if removal.GameRemoved {
		gs.Rooms.Delete(removal.GameID)
		return
	}
	if removal.Game != nil {
		gs.NotifyGamePlayers(removal.Game, EventPlayerDisconnected, map[string]interface{}{
			"playerId": playerID,
		})
		gs.BroadcastGameState(removal.Game)
	}
}

// HandleGameEnd announces a finished game and hands the result to the
// optional audit sinks.
func (gs *GameServer) HandleGameEnd(g *game.Game) {
	snap := g.Snapshot("")
	gs.NotifyGamePlayers(g, EventGameEnded, map[string]interface{}{
		"winner":     snap.Winner,
		"winnerName": snap.WinnerName,
	})

	if !database.Enabled() {
		return
	}
	roomName := ""
	if room, ok := gs.Rooms.Get(g.ID); ok {
		roomName = room.RoomName
	}
	players := make([]database.ResultPlayer, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, database.ResultPlayer{
			ID:       p.ID,
			Name:     p.Name,
			HandSize: p.HandSize,
		})
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordGameResult(ctx, g.ID, roomName, snap.Winner, snap.WinnerName, players); err != nil {
			gs.logger.WithError(err).WithField("gameId", g.ID).Warn("Failed to record game result")
		}
	}()
}

// RecordAction pushes a successful mutating action onto the historian queue,
// fire-and-forget. A disabled or unreachable queue never affects gameplay.
func (gs *GameServer) RecordAction(gameID, actorID, action string, payload map[string]interface{}) {
	if !cache.Enabled() {
		return
	}
	record := cache.ActionRecord{
		GameID:    gameID,
		ActorID:   actorID,
		Action:    action,
		Payload:   payload,
		Timestamp: nowMillis(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := cache.PublishAction(ctx, record); err != nil {
			gs.logger.WithError(err).Warn("Failed to publish action record")
		}
	}()
}

// ListRooms builds the list_games payload from room metadata and live engine
// state.
func (gs *GameServer) ListRooms() []RoomListing {
	rooms := gs.Rooms.List()
	listings := make([]RoomListing, 0, len(rooms))
	for _, room := range rooms {
		g, ok := gs.Manager.GetGame(room.GameID)
		if !ok {
			// Game already reclaimed; drop the stale room entry.
			gs.Rooms.Delete(room.GameID)
			continue
		}
		count := g.PlayerCount()
		listings = append(listings, RoomListing{
			RoomInfo:    *room,
			PlayerCount: count,
			Status:      deriveStatus(g.Status(), count, room.Capacity()),
		})
	}
	return listings
}
