// internal/models/card.go
package models

import "fmt"

// Color is a card color. Wild cards start as ColorWild and are re-bound to a
// concrete color once played.
type Color string

const (
	ColorRed    Color = "RED"
	ColorBlue   Color = "BLUE"
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorWild   Color = "WILD"
)

// Rank is a card face value.
type Rank string

const (
	RankZero         Rank = "ZERO"
	RankOne          Rank = "ONE"
	RankTwo          Rank = "TWO"
	RankThree        Rank = "THREE"
	RankFour         Rank = "FOUR"
	RankFive         Rank = "FIVE"
	RankSix          Rank = "SIX"
	RankSeven        Rank = "SEVEN"
	RankEight        Rank = "EIGHT"
	RankNine         Rank = "NINE"
	RankSkip         Rank = "SKIP"
	RankReverse      Rank = "REVERSE"
	RankDrawTwo      Rank = "DRAW_TWO"
	RankWild         Rank = "WILD"
	RankWildDrawFour Rank = "WILD_DRAW_FOUR"
)

// NumberRanks lists the ten number ranks in ascending order.
var NumberRanks = []Rank{
	RankZero, RankOne, RankTwo, RankThree, RankFour,
	RankFive, RankSix, RankSeven, RankEight, RankNine,
}

// Card is a single UNO card. The color of a wild card is mutated exactly once,
// when the player who played it binds a concrete color.
type Card struct {
	Color Color `json:"color"`
	Rank  Rank  `json:"rank"`
}

// NewCard returns a card with the given color and rank.
func NewCard(color Color, rank Rank) *Card {
	return &Card{Color: color, Rank: rank}
}

// NewWildCard returns a wild-rank card with its color still unbound.
func NewWildCard(rank Rank) *Card {
	return &Card{Color: ColorWild, Rank: rank}
}

// CanPlayOn reports whether c may legally be played on top of other.
// Wild ranks always match; otherwise the color or the rank must match.
func (c *Card) CanPlayOn(other *Card) bool {
	if c.Rank == RankWild || c.Rank == RankWildDrawFour {
		return true
	}
	return c.Color == other.Color || c.Rank == other.Rank
}

// IsWild reports whether c carries a wild rank.
func (c *Card) IsWild() bool {
	return c.Rank == RankWild || c.Rank == RankWildDrawFour
}

// SetColor binds a concrete color onto the card. Only meaningful for wilds.
func (c *Card) SetColor(color Color) {
	c.Color = color
}

// String renders the card in the COLOR_RANK wire form, e.g. "RED_FIVE".
func (c *Card) String() string {
	return string(c.Color) + "_" + string(c.Rank)
}

// ParseColor converts a client-supplied color string to a concrete Color.
// WILD is not a choosable color and is rejected along with unknown values.
func ParseColor(s string) (Color, error) {
	switch Color(s) {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return Color(s), nil
	default:
		return "", fmt.Errorf("invalid color %q", s)
	}
}
