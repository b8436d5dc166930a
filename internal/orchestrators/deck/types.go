package deck

import (
	"github.com/KirkDiggler/solo-rpg-api/internal/entities"
)

// DrawCardInput defines the request for drawing a card
type DrawCardInput struct{}

// DrawCardOutput defines the response for drawing a card
type DrawCardOutput struct {
	// Card is the drawn card. A draw always yields a card.
	Card entities.Card

	// RemainingCards is the number of cards left to draw after this one
	RemainingCards int

	// DeckReshuffled reports whether an implicit reshuffle ran because the
	// deck was empty at draw time. The deferred joker reshuffle is not
	// reported here; it happens after this call returns.
	DeckReshuffled bool
}

// ReshuffleDeckInput defines the request for a manual reshuffle
type ReshuffleDeckInput struct{}

// ReshuffleDeckOutput defines the response for a manual reshuffle
type ReshuffleDeckOutput struct {
	RemainingCards int
	ShuffleCount   int
}

// ResetDeckInput defines the request for a full deck reset
type ResetDeckInput struct{}

// ResetDeckOutput defines the response for a full deck reset
type ResetDeckOutput struct {
	RemainingCards int
}

// GetDeckInfoInput defines the request for a deck snapshot
type GetDeckInfoInput struct{}

// GetDeckInfoOutput is a read-only snapshot of the deck
type GetDeckInfoOutput struct {
	RemainingCards int
	DrawnCards     int
	LastDrawn      *entities.Card
	ShuffleCount   int
}

// GetCardMeaningInput defines the request for a card meaning lookup
type GetCardMeaningInput struct {
	Card entities.Card
}

// GetCardMeaningOutput defines the response for a card meaning lookup
type GetCardMeaningOutput struct {
	Meaning string
}
