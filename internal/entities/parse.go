package entities

import (
	"strings"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
)

// ParseDisplay resolves a display label like "K♥" or "Joker" back to its
// card. Lookup is case-insensitive for the rank letters.
func ParseDisplay(display string) (Card, error) {
	label := strings.TrimSpace(display)
	if strings.EqualFold(label, "Joker") {
		return NewJoker(), nil
	}

	for _, card := range NewOrderedDeck() {
		if strings.EqualFold(card.Display, label) {
			return card, nil
		}
	}

	return Card{}, errors.InvalidArgumentf("unknown card %q", display)
}
