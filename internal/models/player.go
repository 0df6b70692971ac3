// internal/models/player.go
package models

import "errors"

// ErrHandIndex is returned when a hand position is out of range.
var ErrHandIndex = errors.New("hand index out of range")

// Player is one seated participant. The owning game mutates the hand; the
// gateway toggles Connected on transport disconnect without touching the
// seating order.
type Player struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Hand      []*Card `json:"hand"`
	Connected bool    `json:"connected"`
}

// NewPlayer returns a connected player with an empty hand.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Hand:      []*Card{},
		Connected: true,
	}
}

// AddCard appends a single card to the hand.
func (p *Player) AddCard(card *Card) {
	p.Hand = append(p.Hand, card)
}

// AddCards appends cards to the hand, preserving order.
func (p *Player) AddCards(cards []*Card) {
	p.Hand = append(p.Hand, cards...)
}

// PlayCard removes and returns the card at the given 0-based hand position.
func (p *Player) PlayCard(index int) (*Card, error) {
	if index < 0 || index >= len(p.Hand) {
		return nil, ErrHandIndex
	}
	card := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	return card, nil
}

// HasWon reports whether the hand is empty.
func (p *Player) HasWon() bool {
	return len(p.Hand) == 0
}

// HandSize returns the number of cards held.
func (p *Player) HandSize() int {
	return len(p.Hand)
}

// CanPlayCard reports whether the card at index may be played on topCard.
func (p *Player) CanPlayCard(index int, topCard *Card) bool {
	if index < 0 || index >= len(p.Hand) {
		return false
	}
	return p.Hand[index].CanPlayOn(topCard)
}
