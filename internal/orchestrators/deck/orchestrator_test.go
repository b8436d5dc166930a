package deck_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/solo-rpg-api/internal/entities"
	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	deckorch "github.com/KirkDiggler/solo-rpg-api/internal/orchestrators/deck"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/rng"
	deckrepo "github.com/KirkDiggler/solo-rpg-api/internal/repositories/deck"
	"github.com/KirkDiggler/solo-rpg-api/internal/storage"
	storagemocks "github.com/KirkDiggler/solo-rpg-api/internal/storage/mocks"
)

func newTestOrchestrator(t *testing.T, seed uint64) (deckorch.Service, deckrepo.Repository) {
	t.Helper()

	repo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: storage.NewMemory()})
	require.NoError(t, err)

	svc, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository: repo,
		Source:     rng.NewSeeded(seed),
		// Keep deferred joker reshuffles from firing mid-test; the joker
		// test sets its own short delay.
		ReshuffleDelay: time.Minute,
	})
	require.NoError(t, err)

	return svc, repo
}

func TestDrawCard_ExhaustsFullDeck(t *testing.T) {
	svc, _ := newTestOrchestrator(t, 1)
	ctx := context.Background()

	suitCounts := make(map[entities.Suit]int)
	rankCounts := make(map[string]int)
	jokers := 0
	seen := make(map[string]bool)

	for i := 0; i < entities.DeckSize; i++ {
		output, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{})
		require.NoError(t, err)
		require.False(t, output.DeckReshuffled, "draw %d should not reshuffle", i)
		assert.Equal(t, entities.DeckSize-i-1, output.RemainingCards)

		card := output.Card
		if card.IsJoker {
			jokers++
			continue
		}

		require.False(t, seen[card.Display], "duplicate card %s", card.Display)
		seen[card.Display] = true
		suitCounts[card.Suit]++
		rankCounts[card.Rank]++
	}

	assert.Equal(t, 2, jokers)
	for suit, count := range suitCounts {
		assert.Equal(t, 13, count, "suit %s", suit)
	}
	for rank, count := range rankCounts {
		assert.Equal(t, 4, count, "rank %s", rank)
	}
}

func TestDrawCard_EmptyDeckReshuffles(t *testing.T) {
	// Seed a full drawn deck with no jokers left available so the next draw
	// must reshuffle first.
	repo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: storage.NewMemory()})
	require.NoError(t, err)

	cards := entities.NewOrderedDeck()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, deckrepo.SaveInput{State: &deckrepo.State{
		Available:    []entities.Card{},
		Drawn:        cards,
		LastDrawn:    &cards[len(cards)-1],
		ShuffleCount: 2,
	}}))

	svc, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository:     repo,
		Source:         rng.NewSeeded(7),
		ReshuffleDelay: time.Minute,
	})
	require.NoError(t, err)

	output, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{})
	require.NoError(t, err)
	assert.True(t, output.DeckReshuffled)
	assert.Equal(t, entities.DeckSize-1, output.RemainingCards)

	info, err := svc.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, info.ShuffleCount, "implicit reshuffle increments the count exactly once")
	assert.Equal(t, 1, info.DrawnCards)
}

func TestDrawCard_JokerSchedulesReshuffle(t *testing.T) {
	repo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: storage.NewMemory()})
	require.NoError(t, err)

	// Stack the deck so a joker is on top (draws pop the end); the other
	// joker sits in the drawn pile to keep the full 54 accounted for.
	var available []entities.Card
	for _, c := range entities.NewOrderedDeck() {
		if !c.IsJoker {
			available = append(available, c)
		}
	}
	available = append(available, entities.NewJoker())

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, deckrepo.SaveInput{State: &deckrepo.State{
		Available: available,
		Drawn:     []entities.Card{entities.NewJoker()},
	}}))

	svc, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository:     repo,
		Source:         rng.NewSeeded(3),
		ReshuffleDelay: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	output, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{})
	require.NoError(t, err)
	require.True(t, output.Card.IsJoker)

	infoBefore, err := svc.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		info, err := svc.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
		return err == nil && info.ShuffleCount == infoBefore.ShuffleCount+1
	}, time.Second, 2*time.Millisecond, "deferred joker reshuffle should increment shuffle count by exactly one")

	info, err := svc.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DeckSize, info.RemainingCards)
	assert.Equal(t, 0, info.DrawnCards)
	require.NotNil(t, info.LastDrawn)
	assert.True(t, info.LastDrawn.IsJoker, "reshuffle must not change lastDrawn")
}

func TestReshuffleDeck_ReturnsDrawnCards(t *testing.T) {
	svc, _ := newTestOrchestrator(t, 11)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{})
		require.NoError(t, err)
	}

	output, err := svc.ReshuffleDeck(ctx, &deckorch.ReshuffleDeckInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DeckSize, output.RemainingCards)

	info, err := svc.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, info.DrawnCards)
	assert.NotNil(t, info.LastDrawn, "reshuffle preserves lastDrawn")
}

func TestResetDeck_FromAnyState(t *testing.T) {
	svc, _ := newTestOrchestrator(t, 13)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{})
		require.NoError(t, err)
	}
	_, err := svc.ReshuffleDeck(ctx, &deckorch.ReshuffleDeckInput{})
	require.NoError(t, err)

	output, err := svc.ResetDeck(ctx, &deckorch.ResetDeckInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DeckSize, output.RemainingCards)

	info, err := svc.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DeckSize, info.RemainingCards)
	assert.Equal(t, 0, info.DrawnCards)
	assert.Equal(t, 0, info.ShuffleCount)
	assert.Nil(t, info.LastDrawn)
}

func TestDrawCard_PersistsState(t *testing.T) {
	svc, repo := newTestOrchestrator(t, 17)
	ctx := context.Background()

	output, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{})
	require.NoError(t, err)

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, stored.State.Available, entities.DeckSize-1)
	assert.Len(t, stored.State.Drawn, 1)
	require.NotNil(t, stored.State.LastDrawn)
	assert.Equal(t, output.Card, *stored.State.LastDrawn)
}

func TestOrchestrator_SurvivesRestart(t *testing.T) {
	repo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: storage.NewMemory()})
	require.NoError(t, err)
	ctx := context.Background()

	first, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository: repo,
		Source:     rng.NewSeeded(19),
	})
	require.NoError(t, err)

	drawn, err := first.DrawCard(ctx, &deckorch.DrawCardInput{})
	require.NoError(t, err)

	// A second orchestrator over the same repository picks up where the
	// first left off.
	second, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository: repo,
		Source:     rng.NewSeeded(23),
	})
	require.NoError(t, err)

	info, err := second.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DeckSize-1, info.RemainingCards)
	require.NotNil(t, info.LastDrawn)
	assert.Equal(t, drawn.Card, *info.LastDrawn)
}

func TestOrchestrator_CorruptStateHydratesFresh(t *testing.T) {
	store := storage.NewMemory()
	store.Corrupt("deck:state", []byte("schema v1 leftovers"))

	repo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: store})
	require.NoError(t, err)

	svc, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository: repo,
		Source:     rng.NewSeeded(29),
	})
	require.NoError(t, err)

	info, err := svc.GetDeckInfo(context.Background(), &deckorch.GetDeckInfoInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DeckSize, info.RemainingCards)
	assert.Equal(t, 0, info.ShuffleCount)
}

func TestOrchestrator_SaveFailureDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := storagemocks.NewMockKV(ctrl)
	mockStore.EXPECT().
		Load(gomock.Any(), "deck:state", gomock.Any()).
		Return(false, nil)
	mockStore.EXPECT().
		Save(gomock.Any(), "deck:state", gomock.Any()).
		Return(errors.Unavailable("storage quota exceeded")).
		AnyTimes()

	repo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: mockStore})
	require.NoError(t, err)

	svc, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository: repo,
		Source:     rng.NewSeeded(31),
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Every mutation must still succeed in memory.
	output, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DeckSize-1, output.RemainingCards)

	_, err = svc.ReshuffleDeck(ctx, &deckorch.ReshuffleDeckInput{})
	require.NoError(t, err)

	_, err = svc.ResetDeck(ctx, &deckorch.ResetDeckInput{})
	require.NoError(t, err)
}

func TestGetCardMeaning(t *testing.T) {
	svc, _ := newTestOrchestrator(t, 37)
	ctx := context.Background()

	output, err := svc.GetCardMeaning(ctx, &deckorch.GetCardMeaningInput{
		Card: entities.NewCard(12, entities.SuitHearts),
	})
	require.NoError(t, err)
	assert.Equal(t, "K♥ - Social", output.Meaning)

	output, err = svc.GetCardMeaning(ctx, &deckorch.GetCardMeaningInput{
		Card: entities.NewJoker(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Joker - Shuffle and add a random event", output.Meaning)
}

func TestDeckConservation_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: storage.NewMemory()})
		if err != nil {
			rt.Fatal(err)
		}

		seed := rapid.Uint64().Draw(rt, "seed")
		svc, err := deckorch.NewOrchestrator(&deckorch.Config{
			Repository:     repo,
			Source:         rng.NewSeeded(seed),
			ReshuffleDelay: time.Hour, // keep deferred reshuffles out of the way
		})
		if err != nil {
			rt.Fatal(err)
		}

		ctx := context.Background()
		ops := rapid.SliceOfN(rapid.IntRange(0, 2), 1, 60).Draw(rt, "ops")

		for _, op := range ops {
			switch op {
			case 0:
				if _, err := svc.DrawCard(ctx, &deckorch.DrawCardInput{}); err != nil {
					rt.Fatal(err)
				}
			case 1:
				if _, err := svc.ReshuffleDeck(ctx, &deckorch.ReshuffleDeckInput{}); err != nil {
					rt.Fatal(err)
				}
			case 2:
				if _, err := svc.ResetDeck(ctx, &deckorch.ResetDeckInput{}); err != nil {
					rt.Fatal(err)
				}
			}

			info, err := svc.GetDeckInfo(ctx, &deckorch.GetDeckInfoInput{})
			if err != nil {
				rt.Fatal(err)
			}
			if info.RemainingCards+info.DrawnCards != entities.DeckSize {
				rt.Fatalf("deck conservation violated: %d available + %d drawn",
					info.RemainingCards, info.DrawnCards)
			}
		}
	})
}
