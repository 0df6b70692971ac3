// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	"github.com/navaplaystudios/uno-server/internal/models"
)

// Deck is the draw pile: an ordered stack of cards, drawn from the top (the
// end of the slice). A fresh deck holds 112 cards: per non-wild color two of
// each number 0-9, two SKIP, two REVERSE, two DRAW_TWO, plus four WILD and
// four WILD_DRAW_FOUR.
type Deck struct {
	cards []*models.Card
	rng   *rand.Rand
}

// NewDeck builds and shuffles a full 112-card deck.
func NewDeck() *Deck {
	d := &Deck{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	d.initialize()
	d.Shuffle()
	return d
}

func (d *Deck) initialize() {
	colors := []models.Color{models.ColorRed, models.ColorBlue, models.ColorGreen, models.ColorYellow}

	for _, color := range colors {
		for _, rank := range models.NumberRanks {
			d.cards = append(d.cards, models.NewCard(color, rank))
			d.cards = append(d.cards, models.NewCard(color, rank))
		}

		for _, rank := range []models.Rank{models.RankSkip, models.RankReverse, models.RankDrawTwo} {
			d.cards = append(d.cards, models.NewCard(color, rank))
			d.cards = append(d.cards, models.NewCard(color, rank))
		}
	}

	for i := 0; i < 4; i++ {
		d.cards = append(d.cards, models.NewWildCard(models.RankWild))
		d.cards = append(d.cards, models.NewWildCard(models.RankWildDrawFour))
	}
}

// Shuffle permutes the pile uniformly at random.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card, or nil when the pile is empty.
func (d *Deck) Draw() *models.Card {
	if len(d.cards) == 0 {
		return nil
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// DrawMany draws up to count cards, stopping early if the pile empties.
// Callers must tolerate short draws.
func (d *Deck) DrawMany(count int) []*models.Card {
	drawn := make([]*models.Card, 0, count)
	for i := 0; i < count; i++ {
		card := d.Draw()
		if card == nil {
			break
		}
		drawn = append(drawn, card)
	}
	return drawn
}

// AddCards returns cards to the pile. Callers reshuffle when order matters.
func (d *Deck) AddCards(cards []*models.Card) {
	d.cards = append(d.cards, cards...)
}

// IsEmpty reports whether no cards remain.
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Size returns the number of cards remaining.
func (d *Deck) Size() int {
	return len(d.cards)
}
