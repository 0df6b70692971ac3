// internal/game/game.go
package game

import (
	"sync"

	"github.com/navaplaystudios/uno-server/internal/models"
)

// GameState is the lifecycle phase of a single game.
type GameState string

const (
	StateWaitingForPlayers GameState = "WAITING_FOR_PLAYERS"
	StateInProgress        GameState = "IN_PROGRESS"
	StateFinished          GameState = "FINISHED"
)

const (
	// MaxPlayers is the fixed seating capacity of a game.
	MaxPlayers = 3
	// InitialHandSize is dealt to each player on start.
	InitialHandSize = 7
)

// Game holds the entire state for a single game instance in memory.
//
// Every exported operation takes the per-game mutex for its full duration, so
// at most one mutation is in flight per instance. State fields are exported
// for same-package tests; code outside this package goes through the methods.
type Game struct {
	ID string

	Players     []*models.Player
	DrawPile    *Deck
	DiscardPile []*models.Card

	State              GameState
	CurrentPlayerIndex int
	Clockwise          bool
	Winner             *models.Player

	// PendingColorChooser names the player who must bind a color onto the
	// wild card they just played. While non-empty, no other action is
	// accepted for this game.
	PendingColorChooser string

	mu sync.Mutex
}

// NewGame builds an empty game in the waiting state with a freshly shuffled
// draw pile.
func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		Players:     []*models.Player{},
		DrawPile:    NewDeck(),
		DiscardPile: []*models.Card{},
		State:       StateWaitingForPlayers,
		Clockwise:   true,
	}
}

// AddPlayer seats a player. Fails once the game is full or has left the
// waiting state.
func (g *Game) AddPlayer(p *models.Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.Players) >= MaxPlayers {
		return ErrGameFull
	}
	if g.State != StateWaitingForPlayers {
		return ErrAlreadyStarted
	}
	g.Players = append(g.Players, p)
	return nil
}

// Start deals seven cards to each seated player, seeds the discard pile with
// the first non-wild card and applies its effect, then opens play.
//
// Wild cards rejected while seeding are shuffled back into the draw pile so
// the deck keeps its full wild count.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateWaitingForPlayers {
		return ErrAlreadyStarted
	}
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}

	for _, p := range g.Players {
		p.AddCards(g.DrawPile.DrawMany(InitialHandSize))
	}

	// The game never opens on a wild card. The deck composition guarantees a
	// non-wild card remains after dealing at most 3 hands.
	var rejected []*models.Card
	seed := g.DrawPile.Draw()
	for seed != nil && seed.IsWild() {
		rejected = append(rejected, seed)
		seed = g.DrawPile.Draw()
	}
	if seed == nil {
		return ErrNoCardsLeft
	}
	g.DiscardPile = append(g.DiscardPile, seed)
	if len(rejected) > 0 {
		g.DrawPile.AddCards(rejected)
		g.DrawPile.Shuffle()
	}

	g.State = StateInProgress

	// An opening action card acts before the first turn: SKIP and (with two
	// players) REVERSE pass the opening turn to the second seat, DRAW_TWO
	// additionally penalizes them.
	g.applyCardEffect(seed, "")
	return nil
}

// PlayCard plays the card at the given hand index for playerID. A chosenColor
// of "" leaves a played wild unbound until the follow-up color choice; a
// concrete color pre-binds it, though the color-choice sub-state is still
// entered either way.
//
// Failures leave hand, discard pile and turn pointer untouched.
func (g *Game) PlayCard(playerID string, cardIndex int, chosenColor models.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateInProgress {
		return ErrNotInProgress
	}
	if g.PendingColorChooser != "" {
		return ErrColorChoicePending
	}
	current := g.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}
	if !current.CanPlayCard(cardIndex, g.topCard()) {
		return ErrIllegalCard
	}

	card, err := current.PlayCard(cardIndex)
	if err != nil {
		return ErrIllegalCard
	}
	g.DiscardPile = append(g.DiscardPile, card)

	if card.IsWild() && chosenColor != "" {
		card.SetColor(chosenColor)
	}

	// The win check precedes effect processing: a winning wild ends the game
	// without requiring a color choice.
	if current.HasWon() {
		g.Winner = current
		g.State = StateFinished
		return nil
	}

	if !g.applyCardEffect(card, current.ID) {
		g.nextTurn()
	}
	return nil
}

// DrawCard draws a single card for the current player and ends their turn.
// An empty draw pile is refilled from the discard pile first; if both are
// exhausted the draw fails.
func (g *Game) DrawCard(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateInProgress {
		return ErrNotInProgress
	}
	if g.PendingColorChooser != "" {
		return ErrColorChoicePending
	}
	current := g.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}

	if g.DrawPile.IsEmpty() {
		g.refillDrawPile()
	}
	card := g.DrawPile.Draw()
	if card == nil {
		return ErrNoCardsLeft
	}
	current.AddCard(card)
	g.nextTurn()
	return nil
}

// ChooseColor binds a concrete color onto the wild card on top of the discard
// pile, clears the pending sub-state and advances the turn. Only the player
// who played the wild may choose.
func (g *Game) ChooseColor(playerID string, color models.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.PendingColorChooser == "" {
		return ErrNoColorChoicePending
	}
	if g.PendingColorChooser != playerID {
		return ErrNotColorChooser
	}

	g.topCard().SetColor(color)
	g.PendingColorChooser = ""
	g.nextTurn()
	return nil
}

// MarkDisconnected flags the player as disconnected without removing them
// from the seating order. It reports whether the player was found and whether
// every seated player is now disconnected.
func (g *Game) MarkDisconnected(playerID string) (found, allDisconnected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range g.Players {
		if p.ID == playerID {
			p.Connected = false
			found = true
			break
		}
	}
	if !found {
		return false, false
	}
	allDisconnected = true
	for _, p := range g.Players {
		if p.Connected {
			allDisconnected = false
			break
		}
	}
	return found, allDisconnected
}

// Status returns the current lifecycle phase.
func (g *Game) Status() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.State
}

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Players)
}

// PlayerIDs returns the ids of all seated players in seating order.
func (g *Game) PlayerIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, len(g.Players))
	for i, p := range g.Players {
		ids[i] = p.ID
	}
	return ids
}

// applyCardEffect applies a played (or seed) card's side effects. It reports
// whether turn advancement is already settled; when false the caller advances
// once past the player of the card. playerID is empty for the opening seed
// card, whose wild branches can never fire.
//
// Assumes the lock is held.
func (g *Game) applyCardEffect(card *models.Card, playerID string) bool {
	switch card.Rank {
	case models.RankSkip:
		// One advance here plus the caller's advance skips the next player.
		g.nextTurn()
		return false

	case models.RankReverse:
		if len(g.Players) == 2 {
			// With two players a reverse acts as a skip.
			g.nextTurn()
			return false
		}
		g.Clockwise = !g.Clockwise
		return false

	case models.RankDrawTwo:
		// The next player picks up two cards and then takes their turn.
		g.nextTurn()
		g.currentPlayer().AddCards(g.DrawPile.DrawMany(2))
		return true

	case models.RankWild:
		if playerID == "" {
			return false
		}
		g.PendingColorChooser = playerID
		return true

	case models.RankWildDrawFour:
		if playerID == "" {
			return false
		}
		g.PendingColorChooser = playerID
		g.nextTurn()
		g.currentPlayer().AddCards(g.DrawPile.DrawMany(4))
		// The follow-up ChooseColor advances again, past the penalized player.
		return true

	default:
		return false
	}
}

// nextTurn moves the turn pointer one seat in the current direction.
// Assumes the lock is held.
func (g *Game) nextTurn() {
	n := len(g.Players)
	if g.Clockwise {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % n
	} else {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex - 1 + n) % n
	}
}

// refillDrawPile moves every discard except the current top card back into
// the draw pile and reshuffles. Recycled wilds lose their bound color.
// Assumes the lock is held.
func (g *Game) refillDrawPile() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	recycled := g.DiscardPile[:len(g.DiscardPile)-1]
	for _, c := range recycled {
		if c.IsWild() {
			c.SetColor(models.ColorWild)
		}
	}
	g.DrawPile.AddCards(recycled)
	g.DiscardPile = []*models.Card{top}
	g.DrawPile.Shuffle()
}

// currentPlayer returns the player whose turn it is. Assumes the lock is held
// and at least one player is seated.
func (g *Game) currentPlayer() *models.Player {
	return g.Players[g.CurrentPlayerIndex]
}

// topCard returns the top of the discard pile, or nil before the game starts.
// Assumes the lock is held.
func (g *Game) topCard() *models.Card {
	if len(g.DiscardPile) == 0 {
		return nil
	}
	return g.DiscardPile[len(g.DiscardPile)-1]
}
