// internal/models/player_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerPlayCard(t *testing.T) {
	p := NewPlayer("p1", "Alice")
	p.AddCards([]*Card{
		NewCard(ColorRed, RankOne),
		NewCard(ColorBlue, RankTwo),
		NewCard(ColorGreen, RankThree),
	})

	card, err := p.PlayCard(1)
	require.NoError(t, err)
	assert.Equal(t, "BLUE_TWO", card.String())
	assert.Equal(t, 2, p.HandSize())
	assert.Equal(t, "RED_ONE", p.Hand[0].String())
	assert.Equal(t, "GREEN_THREE", p.Hand[1].String())
}

func TestPlayerPlayCardOutOfRange(t *testing.T) {
	p := NewPlayer("p1", "Alice")
	p.AddCard(NewCard(ColorRed, RankOne))

	_, err := p.PlayCard(-1)
	assert.ErrorIs(t, err, ErrHandIndex)

	_, err = p.PlayCard(1)
	assert.ErrorIs(t, err, ErrHandIndex)
	assert.Equal(t, 1, p.HandSize(), "failed play must not touch the hand")
}

func TestPlayerHasWon(t *testing.T) {
	p := NewPlayer("p1", "Alice")
	assert.True(t, p.HasWon(), "empty hand counts as won")

	p.AddCard(NewCard(ColorRed, RankOne))
	assert.False(t, p.HasWon())

	_, err := p.PlayCard(0)
	require.NoError(t, err)
	assert.True(t, p.HasWon())
}

func TestPlayerCanPlayCard(t *testing.T) {
	p := NewPlayer("p1", "Alice")
	p.AddCards([]*Card{
		NewCard(ColorRed, RankOne),
		NewWildCard(RankWild),
	})
	top := NewCard(ColorBlue, RankNine)

	assert.False(t, p.CanPlayCard(0, top))
	assert.True(t, p.CanPlayCard(1, top))
	assert.False(t, p.CanPlayCard(2, top), "out of range index is not playable")
}

func TestNewPlayerStartsConnected(t *testing.T) {
	p := NewPlayer("p1", "Alice")
	assert.True(t, p.Connected)
	assert.Empty(t, p.Hand)
}
