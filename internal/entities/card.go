// Package entities defines the domain types shared across repositories and
// orchestrators.
package entities

// Suit identifies one of the four playing card suits. Jokers have no suit.
type Suit string

// Suits
const (
	SuitSpades   Suit = "♠"
	SuitClubs    Suit = "♣"
	SuitHearts   Suit = "♥"
	SuitDiamonds Suit = "♦"
	SuitNone     Suit = ""
)

// Suit oracle meanings. Drawing a card answers a question in the domain the
// suit represents.
const (
	MeaningPhysical  = "Physical"
	MeaningTechnical = "Technical"
	MeaningMystical  = "Mystical"
	MeaningSocial    = "Social"
	MeaningJoker     = "Shuffle and add a random event"
)

// Card is an immutable playing card value object. Two cards with the same
// rank and suit are interchangeable.
type Card struct {
	Rank    string `json:"rank"`
	Suit    Suit   `json:"suit"`
	Value   int    `json:"value"`
	Display string `json:"display"`
	IsJoker bool   `json:"isJoker"`
}

// DeckSize is the number of cards in a full deck: 52 standard plus 2 jokers
const DeckSize = 54

var ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// NewCard creates a card for the given rank index (0 = Ace ... 12 = King)
// and suit.
func NewCard(rankIndex int, suit Suit) Card {
	rank := ranks[rankIndex]
	return Card{
		Rank:    rank,
		Suit:    suit,
		Value:   rankIndex + 1,
		Display: rank + string(suit),
	}
}

// NewJoker creates a joker. Jokers have no suit and a value of zero.
func NewJoker() Card {
	return Card{
		Rank:    "Joker",
		Suit:    SuitNone,
		Value:   0,
		Display: "Joker",
		IsJoker: true,
	}
}

// NewOrderedDeck returns the full 54-card deck (52 standard cards plus two
// jokers) in a fixed, unshuffled order.
func NewOrderedDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range []Suit{SuitSpades, SuitClubs, SuitHearts, SuitDiamonds} {
		for rankIndex := range ranks {
			deck = append(deck, NewCard(rankIndex, suit))
		}
	}
	deck = append(deck, NewJoker(), NewJoker())
	return deck
}

// SuitMeaning returns the oracle domain a suit maps to
func SuitMeaning(suit Suit) string {
	switch suit {
	case SuitSpades:
		return MeaningPhysical
	case SuitDiamonds:
		return MeaningTechnical
	case SuitClubs:
		return MeaningMystical
	case SuitHearts:
		return MeaningSocial
	default:
		return MeaningJoker
	}
}

// Meaning returns the display label composed with the card's oracle meaning,
// e.g. "K♥ - Social".
func (c Card) Meaning() string {
	if c.IsJoker {
		return c.Display + " - " + MeaningJoker
	}
	return c.Display + " - " + SuitMeaning(c.Suit)
}
