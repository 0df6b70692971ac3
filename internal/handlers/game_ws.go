// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/navaplaystudios/uno-server/internal/game"
	"github.com/navaplaystudios/uno-server/internal/middleware"
	"github.com/navaplaystudios/uno-server/internal/models"
)

// client tracks the gateway state of one websocket connection: the bound
// player id (set on join_game) and the transport write function. The write
// function is a field so tests can capture outbound traffic.
type client struct {
	server   *GameServer
	logger   *logrus.Logger
	conn     *websocket.Conn
	remote   string
	playerID string
	write    func(v interface{})
}

// GameWSHandler upgrades the HTTP connection to a websocket, sends the
// welcome envelope and runs the per-connection read loop. One message is
// decoded, dispatched and answered at a time; a malformed or failing message
// never terminates the connection.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.WithError(err).Warn("WebSocket accept error")
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		cl := &client{
			server: gs,
			logger: logger,
			conn:   c,
			remote: r.RemoteAddr,
		}
		cl.write = func(v interface{}) {
			sendWsMessage(c, v, logger)
		}

		// Welcome envelope on open.
		cl.write(map[string]interface{}{
			"type":      TypeConnection,
			"message":   "Connected to UNO server",
			"timestamp": nowMillis(),
		})

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readMessages(ctx, c, cl)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, cl.playerID, readErr)

		if cl.playerID != "" {
			gs.HandleDisconnect(cl.playerID, c)
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readMessages pumps inbound frames into the dispatcher until the connection
// closes or the context is canceled. Returns the terminal read error, or nil
// for a normal closure.
func readMessages(ctx context.Context, c *websocket.Conn, cl *client) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			cl.logger.Warnf("Ignoring non-text message from %s", cl.remote)
			continue
		}
		cl.handleMessage(data)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

// handleMessage decodes one request envelope and dispatches it. Decode
// failures produce an error envelope for the requester only.
func (cl *client) handleMessage(data []byte) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		cl.logger.WithField("remote", cl.remote).Warnf("Invalid JSON received: %v", err)
		cl.sendError("Invalid JSON format")
		return
	}
	cl.logger.WithFields(logrus.Fields{
		"action": req.Action,
		"remote": cl.remote,
	}).Debug("Action received")
	cl.handleRequest(&req)
}

func (cl *client) handleRequest(req *Request) {
	switch req.Action {
	case ActionCreateGame:
		cl.handleCreateGame(req)
	case ActionJoinGame:
		cl.handleJoinGame(req)
	case ActionStartGame:
		cl.handleStartGame(req)
	case ActionPlayCard:
		cl.handlePlayCard(req)
	case ActionDrawCard:
		cl.handleDrawCard(req)
	case ActionChooseColor:
		cl.handleChooseColor(req)
	case ActionGetGameState:
		cl.handleGetGameState(req)
	case ActionListGames:
		cl.handleListGames(req)
	case ActionPing:
		cl.handlePing()
	default:
		cl.sendError(fmt.Sprintf("Unknown action: %s", req.Action))
	}
}

func (cl *client) handleCreateGame(req *Request) {
	g := cl.server.Manager.CreateGame()

	roomName := req.RoomName
	if roomName == "" {
		roomName = "UNO Room"
	}
	room := &RoomInfo{
		GameID:         g.ID,
		RoomName:       roomName,
		HostPlayerID:   req.HostPlayerID,
		HostPlayerName: req.HostPlayerName,
		MaxPlayers:     req.MaxPlayers,
	}
	// The advertised capacity never exceeds what joins can actually achieve.
	if room.MaxPlayers <= 0 || room.MaxPlayers > game.MaxPlayers {
		room.MaxPlayers = game.MaxPlayers
	}
	cl.server.Rooms.Add(room)

	cl.write(newResponse(TypeGameCreated, true, "Game created successfully", map[string]interface{}{
		"gameId":     g.ID,
		"roomName":   room.RoomName,
		"maxPlayers": room.MaxPlayers,
	}))
}

func (cl *client) handleJoinGame(req *Request) {
	if req.GameID == "" || req.PlayerID == "" || req.PlayerName == "" {
		cl.fail(ActionJoinGame, "gameId, playerId and playerName are required")
		return
	}
	if cl.playerID != "" && cl.playerID != req.PlayerID {
		cl.fail(ActionJoinGame, "connection is already bound to another player")
		return
	}

	g, err := cl.server.Manager.JoinGame(req.GameID, req.PlayerID, req.PlayerName)
	if err != nil {
		cl.fail(ActionJoinGame, err.Error())
		return
	}

	cl.playerID = req.PlayerID
	cl.server.RegisterConn(req.PlayerID, cl.conn)

	cl.write(newResponse(TypePlayerJoined, true, "Joined game successfully", map[string]interface{}{
		"gameId":      g.ID,
		"playerId":    req.PlayerID,
		"playerCount": g.PlayerCount(),
	}))

	cl.server.NotifyOtherGamePlayers(g, req.PlayerID, EventPlayerJoinedGame, map[string]interface{}{
		"playerId":   req.PlayerID,
		"playerName": req.PlayerName,
	})
}

func (cl *client) handleStartGame(req *Request) {
	if req.GameID == "" || req.PlayerID == "" {
		cl.fail(ActionStartGame, "gameId and playerId are required")
		return
	}
	g, err := cl.server.Manager.StartGame(req.GameID, req.PlayerID)
	if err != nil {
		cl.fail(ActionStartGame, err.Error())
		return
	}

	cl.server.NotifyGamePlayers(g, EventGameStarted, nil)
	cl.server.BroadcastGameState(g)
	cl.server.RecordAction(g.ID, req.PlayerID, ActionStartGame, nil)
}

func (cl *client) handlePlayCard(req *Request) {
	if req.PlayerID == "" || req.CardIndex == nil {
		cl.fail(ActionPlayCard, "playerId and cardIndex are required")
		return
	}
	var chosen models.Color
	if req.ChosenColor != "" {
		color, err := models.ParseColor(req.ChosenColor)
		if err != nil {
			cl.fail(ActionPlayCard, err.Error())
			return
		}
		chosen = color
	}

	g, err := cl.server.Manager.PlayCard(req.PlayerID, *req.CardIndex, chosen)
	if err != nil {
		cl.fail(ActionPlayCard, err.Error())
		return
	}

	cl.server.NotifyGamePlayers(g, EventCardPlayed, map[string]interface{}{
		"playerId": req.PlayerID,
	})
	cl.server.BroadcastGameState(g)
	cl.server.RecordAction(g.ID, req.PlayerID, ActionPlayCard, map[string]interface{}{
		"cardIndex":   *req.CardIndex,
		"chosenColor": req.ChosenColor,
	})

	if g.Status() == game.StateFinished {
		cl.server.HandleGameEnd(g)
	}
}

func (cl *client) handleDrawCard(req *Request) {
	if req.PlayerID == "" {
		cl.fail(ActionDrawCard, "playerId is required")
		return
	}
	g, err := cl.server.Manager.DrawCard(req.PlayerID)
	if err != nil {
		cl.fail(ActionDrawCard, err.Error())
		return
	}

	cl.server.NotifyGamePlayers(g, EventCardDrawn, map[string]interface{}{
		"playerId": req.PlayerID,
	})
	cl.server.BroadcastGameState(g)
	cl.server.RecordAction(g.ID, req.PlayerID, ActionDrawCard, nil)
}

func (cl *client) handleChooseColor(req *Request) {
	if req.PlayerID == "" || req.Color == "" {
		cl.fail(ActionChooseColor, "playerId and color are required")
		return
	}
	color, err := models.ParseColor(req.Color)
	if err != nil {
		cl.fail(ActionChooseColor, err.Error())
		return
	}

	g, err := cl.server.Manager.ChooseColor(req.PlayerID, color)
	if err != nil {
		cl.fail(ActionChooseColor, err.Error())
		return
	}

	cl.server.NotifyGamePlayers(g, EventColorChosen, map[string]interface{}{
		"playerId": req.PlayerID,
		"color":    string(color),
	})
	cl.server.BroadcastGameState(g)
	cl.server.RecordAction(g.ID, req.PlayerID, ActionChooseColor, map[string]interface{}{
		"color": string(color),
	})
}

func (cl *client) handleGetGameState(req *Request) {
	if req.PlayerID == "" {
		cl.fail(ActionGetGameState, "playerId is required")
		return
	}
	snap, err := cl.server.Manager.GameState(req.PlayerID)
	if err != nil {
		cl.fail(ActionGetGameState, err.Error())
		return
	}
	cl.write(newResponse(TypeGameState, true, "Game state", snap))
}

func (cl *client) handleListGames(req *Request) {
	cl.write(newResponse(TypeGameList, true, "Active games", map[string]interface{}{
		"games": cl.server.ListRooms(),
	}))
}

func (cl *client) handlePing() {
	cl.write(map[string]interface{}{
		"type":             TypePong,
		"status":           "OK",
		"activeGames":      cl.server.Manager.GameCount(),
		"connectedPlayers": cl.server.ConnCount(),
		"timestamp":        nowMillis(),
	})
}

// fail reports a failed operation to the requester only.
func (cl *client) fail(action, message string) {
	cl.write(newResponse(failureType(action), false, message, nil))
}

// sendError reports a generic error envelope to the requester only.
func (cl *client) sendError(message string) {
	cl.write(newResponse(TypeError, false, message, nil))
}

// sendWsMessage marshals a message and writes it to the connection with a
// bounded timeout.
func sendWsMessage(c *websocket.Conn, v interface{}, logger *logrus.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal WebSocket message")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logger.WithError(err).Warn("Failed to write WebSocket message")
		}
	}
}
