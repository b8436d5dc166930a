// Package rollhistory provides repository interface and types for the
// persisted dice roll history.
package rollhistory

import (
	"context"
	"time"
)

// Entry is one logged dice roll
type Entry struct {
	// ID uniquely identifies this entry within and across sessions
	ID string `json:"id"`

	// Notation is the dice expression that was rolled
	Notation string `json:"notation"`

	// Result is the final total of the roll
	Result int `json:"result"`

	// Breakdown is the human-readable derivation of the total
	Breakdown string `json:"breakdown"`

	// Timestamp records when the roll was made (stored as RFC 3339)
	Timestamp time.Time `json:"timestamp"`
}

// Log is the persisted shape of the roll history, newest entry first
type Log struct {
	Entries    []Entry `json:"entries"`
	MaxEntries int     `json:"maxEntries"`
}

// GetOutput contains the result of loading the roll history
type GetOutput struct {
	Log *Log
}

// SaveInput contains parameters for persisting the roll history
type SaveInput struct {
	Log *Log
}

// Repository defines the interface for roll history storage operations
type Repository interface {
	// Get loads the persisted history. Returns NotFound when nothing has
	// been persisted yet and DataLoss when the stored data is undecodable.
	Get(ctx context.Context) (*GetOutput, error)

	// Save persists the history, replacing whatever was stored
	Save(ctx context.Context, input SaveInput) error

	// Delete removes the persisted history
	Delete(ctx context.Context) error
}
