package history

import (
	"time"

	rollhistory "github.com/KirkDiggler/solo-rpg-api/internal/repositories/roll_history"
)

// AddRollInput defines the request for logging a dice roll
type AddRollInput struct {
	Notation  string
	Result    int
	Breakdown string
}

// AddRollOutput defines the response for logging a dice roll
type AddRollOutput struct {
	Entry rollhistory.Entry
}

// GetHistoryInput defines the request for reading the history
type GetHistoryInput struct{}

// GetHistoryOutput holds the logged rolls, newest first
type GetHistoryOutput struct {
	Entries []rollhistory.Entry
}

// ClearHistoryInput defines the request for clearing the history
type ClearHistoryInput struct{}

// ClearHistoryOutput defines the response for clearing the history
type ClearHistoryOutput struct {
	EntriesCleared int
}

// GetHistoryInfoInput defines the request for history metadata
type GetHistoryInfoInput struct{}

// GetHistoryInfoOutput summarizes the history without returning entries
type GetHistoryInfoOutput struct {
	TotalRolls  int
	MaxEntries  int
	OldestEntry *time.Time
	NewestEntry *time.Time
}
