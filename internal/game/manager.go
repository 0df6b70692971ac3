// internal/game/manager.go
package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/navaplaystudios/uno-server/internal/models"
)

// Manager is the concurrent registry of all live games and of the player to
// game index. Both registries are sync.Maps so that inserts, lookups and
// removals are per-key atomic; a player is routed to at most one game at a
// time via LoadOrStore on join.
type Manager struct {
	games   sync.Map // gameID string -> *Game
	players sync.Map // playerID string -> gameID string

	logger *logrus.Logger
}

// Removal describes the outcome of removing a player from their game.
type Removal struct {
	GameID      string
	Game        *Game
	GameRemoved bool
}

// NewManager returns an empty Manager logging through the given logger.
func NewManager(logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{logger: logger}
}

// CreateGame registers an empty waiting game under a fresh id.
func (m *Manager) CreateGame() *Game {
	g := NewGame(uuid.NewString())
	m.games.Store(g.ID, g)
	m.logger.WithField("gameId", g.ID).Info("Game created")
	return g
}

// JoinGame seats playerID in the given game. The player-to-game mapping is
// reserved atomically first, so a player racing two joins lands in exactly
// one game.
func (m *Manager) JoinGame(gameID, playerID, playerName string) (*Game, error) {
	g, ok := m.loadGame(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	if _, taken := m.players.LoadOrStore(playerID, gameID); taken {
		return nil, ErrAlreadyInGame
	}
	if err := g.AddPlayer(models.NewPlayer(playerID, playerName)); err != nil {
		m.players.Delete(playerID)
		return nil, err
	}
	m.logger.WithFields(logrus.Fields{
		"gameId":   gameID,
		"playerId": playerID,
	}).Info("Player joined game")
	return g, nil
}

// StartGame starts the given game. Any seated player may issue the start; the
// requester id is recorded for the log only.
func (m *Manager) StartGame(gameID, requesterID string) (*Game, error) {
	g, ok := m.loadGame(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	if err := g.Start(); err != nil {
		return nil, err
	}
	m.logger.WithFields(logrus.Fields{
		"gameId":    gameID,
		"requester": requesterID,
		"players":   g.PlayerCount(),
	}).Info("Game started")
	return g, nil
}

// PlayCard resolves the player's game and plays the card at cardIndex.
// chosenColor may be "" when no inline color accompanies a wild.
func (m *Manager) PlayCard(playerID string, cardIndex int, chosenColor models.Color) (*Game, error) {
	g, err := m.gameFor(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.PlayCard(playerID, cardIndex, chosenColor); err != nil {
		return nil, err
	}
	return g, nil
}

// DrawCard resolves the player's game and draws one card for them.
func (m *Manager) DrawCard(playerID string) (*Game, error) {
	g, err := m.gameFor(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.DrawCard(playerID); err != nil {
		return nil, err
	}
	return g, nil
}

// ChooseColor resolves the player's game and binds the chosen color.
func (m *Manager) ChooseColor(playerID string, color models.Color) (*Game, error) {
	g, err := m.gameFor(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.ChooseColor(playerID, color); err != nil {
		return nil, err
	}
	return g, nil
}

// GameState builds the requesting player's view of their game.
func (m *Manager) GameState(playerID string) (*Snapshot, error) {
	g, err := m.gameFor(playerID)
	if err != nil {
		return nil, err
	}
	return g.Snapshot(playerID), nil
}

// RemovePlayer unmaps the player and marks them disconnected in their game.
// When the last connected player leaves, the game is torn down and reclaimed.
func (m *Manager) RemovePlayer(playerID string) (*Removal, bool) {
	v, ok := m.players.LoadAndDelete(playerID)
	if !ok {
		return nil, false
	}
	gameID := v.(string)
	removal := &Removal{GameID: gameID}
	g, ok := m.loadGame(gameID)
	if !ok {
		return removal, true
	}
	removal.Game = g

	found, allDisconnected := g.MarkDisconnected(playerID)
	if found && allDisconnected {
		m.games.Delete(gameID)
		removal.GameRemoved = true
		m.logger.WithField("gameId", gameID).Info("Game removed, all players disconnected")
	}
	return removal, true
}

// GetGame returns the game registered under id.
func (m *Manager) GetGame(gameID string) (*Game, bool) {
	return m.loadGame(gameID)
}

// GameIDFor returns the id of the game the player is seated in.
func (m *Manager) GameIDFor(playerID string) (string, bool) {
	v, ok := m.players.Load(playerID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Games returns all live games in no particular order.
func (m *Manager) Games() []*Game {
	var out []*Game
	m.games.Range(func(_, v interface{}) bool {
		out = append(out, v.(*Game))
		return true
	})
	return out
}

// GameCount returns the number of live games.
func (m *Manager) GameCount() int {
	n := 0
	m.games.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func (m *Manager) loadGame(gameID string) (*Game, bool) {
	v, ok := m.games.Load(gameID)
	if !ok {
		return nil, false
	}
	return v.(*Game), true
}

func (m *Manager) gameFor(playerID string) (*Game, error) {
	gameID, ok := m.GameIDFor(playerID)
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	g, ok := m.loadGame(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}
