// Package history implements the roll history orchestrator: a bounded,
// newest-first log of past dice rolls. The dice engine does not log its own
// rolls; callers log each roll explicitly after evaluating it.
package history

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/clock"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/idgen"
	rollhistory "github.com/KirkDiggler/solo-rpg-api/internal/repositories/roll_history"
)

// DefaultMaxEntries bounds the log; the oldest entries are silently evicted
const DefaultMaxEntries = 20

// Service defines the interface for roll history operations
type Service interface {
	// AddRoll prepends a new entry and truncates to the bound
	AddRoll(ctx context.Context, input *AddRollInput) (*AddRollOutput, error)

	// GetHistory returns all entries, newest first
	GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error)

	// ClearHistory removes all entries
	ClearHistory(ctx context.Context, input *ClearHistoryInput) (*ClearHistoryOutput, error)

	// GetHistoryInfo summarizes the log without returning entries
	GetHistoryInfo(ctx context.Context, input *GetHistoryInfoInput) (*GetHistoryInfoOutput, error)
}

// Config holds the dependencies for the history orchestrator
type Config struct {
	Repository  rollhistory.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock

	// MaxEntries overrides DefaultMaxEntries, mainly for tests
	MaxEntries int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.MaxEntries < 0 {
		vb.Fieldf("MaxEntries", "must not be negative, got %d", c.MaxEntries)
	}

	return vb.Build()
}

type orchestrator struct {
	repo       rollhistory.Repository
	idGen      idgen.Generator
	clk        clock.Clock
	maxEntries int

	// mu guards log. The in-memory log is authoritative; the repository is
	// best-effort durability.
	mu  sync.Mutex
	log *rollhistory.Log
}

// NewOrchestrator creates a new history orchestrator with the provided
// dependencies.
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxEntries := cfg.MaxEntries
	if maxEntries == 0 {
		maxEntries = DefaultMaxEntries
	}

	return &orchestrator{
		repo:       cfg.Repository,
		idGen:      cfg.IDGenerator,
		clk:        cfg.Clock,
		maxEntries: maxEntries,
	}, nil
}

// AddRoll prepends a new entry with a fresh unique ID and the current time,
// then truncates the log to the bound.
func (o *orchestrator) AddRoll(ctx context.Context, input *AddRollInput) (*AddRollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Notation == "" {
		return nil, errors.InvalidArgument("notation is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.ensureLogLocked(ctx)

	entry := rollhistory.Entry{
		ID:        o.idGen.Generate(),
		Notation:  input.Notation,
		Result:    input.Result,
		Breakdown: input.Breakdown,
		Timestamp: o.clk.Now(),
	}

	o.log.Entries = append([]rollhistory.Entry{entry}, o.log.Entries...)
	if len(o.log.Entries) > o.maxEntries {
		o.log.Entries = o.log.Entries[:o.maxEntries]
	}

	o.saveLocked(ctx)

	return &AddRollOutput{Entry: entry}, nil
}

// GetHistory returns all entries, newest first
func (o *orchestrator) GetHistory(ctx context.Context, _ *GetHistoryInput) (*GetHistoryOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ensureLogLocked(ctx)

	entries := make([]rollhistory.Entry, len(o.log.Entries))
	copy(entries, o.log.Entries)

	return &GetHistoryOutput{Entries: entries}, nil
}

// ClearHistory removes all entries
func (o *orchestrator) ClearHistory(ctx context.Context, _ *ClearHistoryInput) (*ClearHistoryOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ensureLogLocked(ctx)

	cleared := len(o.log.Entries)
	o.log.Entries = []rollhistory.Entry{}
	o.saveLocked(ctx)

	slog.Info("roll history cleared", "entries_cleared", cleared)

	return &ClearHistoryOutput{EntriesCleared: cleared}, nil
}

// GetHistoryInfo summarizes the log
func (o *orchestrator) GetHistoryInfo(ctx context.Context, _ *GetHistoryInfoInput) (*GetHistoryInfoOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ensureLogLocked(ctx)

	info := &GetHistoryInfoOutput{
		TotalRolls: len(o.log.Entries),
		MaxEntries: o.maxEntries,
	}

	if len(o.log.Entries) > 0 {
		newest := o.log.Entries[0].Timestamp
		oldest := o.log.Entries[len(o.log.Entries)-1].Timestamp
		info.NewestEntry = &newest
		info.OldestEntry = &oldest
	}

	return info, nil
}

// ensureLogLocked hydrates the log from the repository on first use. A
// missing or corrupt persisted record yields an empty log.
func (o *orchestrator) ensureLogLocked(ctx context.Context) {
	if o.log != nil {
		return
	}

	output, err := o.repo.Get(ctx)
	if err != nil {
		if !errors.IsNotFound(err) {
			slog.Warn("failed to hydrate roll history, starting empty", "error", err)
		}
		o.log = &rollhistory.Log{Entries: []rollhistory.Entry{}, MaxEntries: o.maxEntries}
		return
	}

	o.log = output.Log
	o.log.MaxEntries = o.maxEntries
	if len(o.log.Entries) > o.maxEntries {
		o.log.Entries = o.log.Entries[:o.maxEntries]
	}
}

// saveLocked persists the log. Durability is best-effort: a failed write is
// logged and the in-memory log stays authoritative.
func (o *orchestrator) saveLocked(ctx context.Context) {
	if err := o.repo.Save(ctx, rollhistory.SaveInput{Log: o.log}); err != nil {
		slog.Warn("failed to persist roll history", "error", err)
	}
}
