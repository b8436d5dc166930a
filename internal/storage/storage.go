// Package storage provides a generic JSON key-value persistence helper.
//
// Every consumer (deck repository, roll history repository) must survive the
// store being empty, unavailable, or holding data from an older schema, so
// this package centralizes "never trust what's in storage": absence is
// reported as found=false, undecodable data as a DataLoss error, and callers
// are expected to fall back to a fresh default in either case.
package storage

import (
	"context"
)

//go:generate mockgen -destination=mocks/storage.go -package=storagemocks -source=storage.go

// KV persists JSON-serializable values under string keys
type KV interface {
	// Save serializes value to JSON and writes it under key
	Save(ctx context.Context, key string, value any) error

	// Load reads the value stored under key into dest. Returns found=false
	// when the key is absent. Returns a DataLoss error when the stored data
	// cannot be decoded.
	Load(ctx context.Context, key string, dest any) (found bool, err error)

	// Delete removes the value stored under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
