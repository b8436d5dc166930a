// Package deck implements the card deck orchestrator: one logical 54-card
// deck with shuffle, draw, and reset, surviving restarts via the deck
// repository.
package deck

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/solo-rpg-api/internal/entities"
	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/rng"
	deckrepo "github.com/KirkDiggler/solo-rpg-api/internal/repositories/deck"
)

// DefaultReshuffleDelay is how long after a joker draw the automatic
// reshuffle fires. The delay gives the caller time to show the joker before
// the table resets.
const DefaultReshuffleDelay = 2 * time.Second

// Service defines the interface for deck operations
type Service interface {
	// DrawCard draws the next card, implicitly reshuffling first if the
	// deck is empty. Drawing a joker schedules a deferred reshuffle.
	DrawCard(ctx context.Context, input *DrawCardInput) (*DrawCardOutput, error)

	// ReshuffleDeck returns all drawn cards to the deck and shuffles
	ReshuffleDeck(ctx context.Context, input *ReshuffleDeckInput) (*ReshuffleDeckOutput, error)

	// ResetDeck discards all state and creates a fresh shuffled deck
	ResetDeck(ctx context.Context, input *ResetDeckInput) (*ResetDeckOutput, error)

	// GetDeckInfo returns a read-only snapshot with no side effects
	GetDeckInfo(ctx context.Context, input *GetDeckInfoInput) (*GetDeckInfoOutput, error)

	// GetCardMeaning is a pure oracle meaning lookup
	GetCardMeaning(ctx context.Context, input *GetCardMeaningInput) (*GetCardMeaningOutput, error)
}

// Config holds the dependencies for the deck orchestrator
type Config struct {
	Repository deckrepo.Repository
	Source     rng.Source

	// ReshuffleDelay overrides DefaultReshuffleDelay, mainly for tests
	ReshuffleDelay time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Source == nil {
		vb.RequiredField("Source")
	}

	return vb.Build()
}

type orchestrator struct {
	repo           deckrepo.Repository
	src            rng.Source
	reshuffleDelay time.Duration

	// mu guards state. The in-memory state is authoritative; the
	// repository is best-effort durability.
	mu    sync.Mutex
	state *deckrepo.State
}

// NewOrchestrator creates a new deck orchestrator with the provided
// dependencies. Exactly one orchestrator should exist per running
// application; the composition point owns it and hands it to whoever needs
// the deck.
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	delay := cfg.ReshuffleDelay
	if delay == 0 {
		delay = DefaultReshuffleDelay
	}

	return &orchestrator{
		repo:           cfg.Repository,
		src:            cfg.Source,
		reshuffleDelay: delay,
	}, nil
}

// DrawCard draws the next card. It never fails to produce a card: an empty
// deck reshuffles implicitly and a missing or corrupt persisted state
// hydrates to a fresh deck.
func (o *orchestrator) DrawCard(ctx context.Context, _ *DrawCardInput) (*DrawCardOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ensureStateLocked(ctx)

	reshuffled := false
	if len(o.state.Available) == 0 {
		o.reshuffleLocked()
		reshuffled = true
	}

	card := o.state.Available[len(o.state.Available)-1]
	o.state.Available = o.state.Available[:len(o.state.Available)-1]
	o.state.Drawn = append(o.state.Drawn, card)
	o.state.LastDrawn = &card

	o.saveLocked(ctx)

	if card.IsJoker {
		o.scheduleJokerReshuffle()
	}

	slog.Info("card drawn",
		"card", card.Display,
		"remaining", len(o.state.Available),
		"reshuffled", reshuffled,
	)

	return &DrawCardOutput{
		Card:           card,
		RemainingCards: len(o.state.Available),
		DeckReshuffled: reshuffled,
	}, nil
}

// ReshuffleDeck manually returns all drawn cards and shuffles
func (o *orchestrator) ReshuffleDeck(ctx context.Context, _ *ReshuffleDeckInput) (*ReshuffleDeckOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ensureStateLocked(ctx)
	o.reshuffleLocked()
	o.saveLocked(ctx)

	slog.Info("deck reshuffled", "shuffle_count", o.state.ShuffleCount)

	return &ReshuffleDeckOutput{
		RemainingCards: len(o.state.Available),
		ShuffleCount:   o.state.ShuffleCount,
	}, nil
}

// ResetDeck discards all state and creates a fresh shuffled deck
func (o *orchestrator) ResetDeck(ctx context.Context, _ *ResetDeckInput) (*ResetDeckOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = o.freshState()
	o.saveLocked(ctx)

	slog.Info("deck reset")

	return &ResetDeckOutput{
		RemainingCards: len(o.state.Available),
	}, nil
}

// GetDeckInfo returns a read-only snapshot
func (o *orchestrator) GetDeckInfo(ctx context.Context, _ *GetDeckInfoInput) (*GetDeckInfoOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ensureStateLocked(ctx)

	return &GetDeckInfoOutput{
		RemainingCards: len(o.state.Available),
		DrawnCards:     len(o.state.Drawn),
		LastDrawn:      o.state.LastDrawn,
		ShuffleCount:   o.state.ShuffleCount,
	}, nil
}

// GetCardMeaning looks up the oracle meaning of a card. No side effects.
func (o *orchestrator) GetCardMeaning(_ context.Context, input *GetCardMeaningInput) (*GetCardMeaningOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	return &GetCardMeaningOutput{
		Meaning: input.Card.Meaning(),
	}, nil
}

// ensureStateLocked hydrates state from the repository on first use. A
// missing, corrupt, or inconsistent persisted record yields a fresh deck:
// storage is never trusted to block the session.
func (o *orchestrator) ensureStateLocked(ctx context.Context) {
	if o.state != nil {
		return
	}

	output, err := o.repo.Get(ctx)
	if err != nil {
		if !errors.IsNotFound(err) {
			slog.Warn("failed to hydrate deck state, starting fresh", "error", err)
		}
		o.state = o.freshState()
		o.saveLocked(ctx)
		return
	}

	state := output.State
	if len(state.Available)+len(state.Drawn) != entities.DeckSize {
		slog.Warn("persisted deck state is inconsistent, starting fresh",
			"available", len(state.Available),
			"drawn", len(state.Drawn),
		)
		o.state = o.freshState()
		o.saveLocked(ctx)
		return
	}

	o.state = state
}

func (o *orchestrator) freshState() *deckrepo.State {
	cards := entities.NewOrderedDeck()
	o.shuffle(cards)
	return &deckrepo.State{
		Available: cards,
		Drawn:     []entities.Card{},
	}
}

// reshuffleLocked moves all drawn cards back, shuffles, and increments the
// shuffle count. LastDrawn is preserved.
func (o *orchestrator) reshuffleLocked() {
	o.state.Available = append(o.state.Available, o.state.Drawn...)
	o.state.Drawn = []entities.Card{}
	o.shuffle(o.state.Available)
	o.state.ShuffleCount++
}

// shuffle permutes cards in place with Fisher-Yates, which is unbiased as
// long as the source is uniform.
func (o *orchestrator) shuffle(cards []entities.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := o.src.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// saveLocked persists the current state. Durability is best-effort: a
// failed write is logged and the in-memory state stays authoritative.
func (o *orchestrator) saveLocked(ctx context.Context) {
	if err := o.repo.Save(ctx, deckrepo.SaveInput{State: o.state}); err != nil {
		slog.Warn("failed to persist deck state", "error", err)
	}
}

// scheduleJokerReshuffle defers an automatic reshuffle so the caller can
// show the joker before the deck resets. The write it makes is a second,
// later write distinct from the draw's own synchronous save. There is no
// cancellation: if the process exits first the next session hydrates from
// whatever state was last persisted.
func (o *orchestrator) scheduleJokerReshuffle() {
	time.AfterFunc(o.reshuffleDelay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()

		if o.state == nil {
			return
		}

		o.reshuffleLocked()
		o.saveLocked(context.Background())

		slog.Info("joker reshuffle completed", "shuffle_count", o.state.ShuffleCount)
	})
}
