package rollhistory

import (
	"context"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	"github.com/KirkDiggler/solo-rpg-api/internal/storage"
)

// Storage key for the roll history. Distinct from the deck key so the two
// managers never contend for the same record.
const logKey = "dice:roll_history"

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

// NewKVRepository creates a roll history repository on top of a key-value store
func NewKVRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &kvRepository{store: cfg.Store}, nil
}

// Ensure kvRepository implements Repository
var _ Repository = (*kvRepository)(nil)

// Get loads the persisted history
func (r *kvRepository) Get(ctx context.Context) (*GetOutput, error) {
	var log Log
	found, err := r.store.Load(ctx, logKey, &log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load roll history")
	}
	if !found {
		return nil, errors.NotFound("no roll history persisted")
	}

	return &GetOutput{Log: &log}, nil
}

// Save persists the history
func (r *kvRepository) Save(ctx context.Context, input SaveInput) error {
	if input.Log == nil {
		return errors.InvalidArgument("log cannot be nil")
	}

	if err := r.store.Save(ctx, logKey, input.Log); err != nil {
		return errors.Wrap(err, "failed to save roll history")
	}

	return nil
}

// Delete removes the persisted history
func (r *kvRepository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, logKey); err != nil {
		return errors.Wrap(err, "failed to delete roll history")
	}

	return nil
}
