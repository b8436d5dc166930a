package deck

import (
	"context"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	"github.com/KirkDiggler/solo-rpg-api/internal/storage"
)

// Storage key for the one logical deck
const stateKey = "deck:state"

// Config holds the configuration for the KV-backed repository
type Config struct {
	Store storage.KV
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Store == nil {
		return errors.InvalidArgument("store is required")
	}
	return nil
}

type kvRepository struct {
	store storage.KV
}

// NewKVRepository creates a deck repository on top of a key-value store
func NewKVRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &kvRepository{store: cfg.Store}, nil
}

// Ensure kvRepository implements Repository
var _ Repository = (*kvRepository)(nil)

// Get loads the persisted deck state
func (r *kvRepository) Get(ctx context.Context) (*GetOutput, error) {
	var state State
	found, err := r.store.Load(ctx, stateKey, &state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load deck state")
	}
	if !found {
		return nil, errors.NotFound("no deck state persisted")
	}

	return &GetOutput{State: &state}, nil
}

// Save persists the deck state
func (r *kvRepository) Save(ctx context.Context, input SaveInput) error {
	if input.State == nil {
		return errors.InvalidArgument("state cannot be nil")
	}

	if err := r.store.Save(ctx, stateKey, input.State); err != nil {
		return errors.Wrap(err, "failed to save deck state")
	}

	return nil
}

// Delete removes the persisted deck state
func (r *kvRepository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, stateKey); err != nil {
		return errors.Wrap(err, "failed to delete deck state")
	}

	return nil
}
