// Package deck provides repository interface and types for persisted deck state
package deck

import (
	"context"

	"github.com/KirkDiggler/solo-rpg-api/internal/entities"
)

// State is the persisted shape of the one logical deck. Available acts as a
// stack: the next draw pops the end. Available plus Drawn always hold all
// 54 cards except transiently during a reshuffle.
type State struct {
	// Available holds the cards not yet drawn since the last shuffle
	Available []entities.Card `json:"availableCards"`

	// Drawn holds the cards drawn since the last shuffle, oldest first
	Drawn []entities.Card `json:"drawnCards"`

	// LastDrawn is the most recently drawn card, surviving reshuffles
	LastDrawn *entities.Card `json:"lastDrawn"`

	// ShuffleCount counts reshuffles since the deck was created or reset
	ShuffleCount int `json:"shuffleCount"`
}

// GetOutput contains the result of loading the deck state
type GetOutput struct {
	State *State
}

// SaveInput contains parameters for persisting the deck state
type SaveInput struct {
	State *State
}

// Repository defines the interface for deck state storage operations
type Repository interface {
	// Get loads the persisted deck state. Returns NotFound when nothing has
	// been persisted yet and DataLoss when the stored data is undecodable.
	Get(ctx context.Context) (*GetOutput, error)

	// Save persists the deck state, replacing whatever was stored
	Save(ctx context.Context, input SaveInput) error

	// Delete removes the persisted deck state
	Delete(ctx context.Context) error
}
