package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/solo-rpg-api/internal/entities"
	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	deckorch "github.com/KirkDiggler/solo-rpg-api/internal/orchestrators/deck"
)

type drawCardResponse struct {
	Card           entities.Card `json:"card"`
	Meaning        string        `json:"meaning"`
	RemainingCards int           `json:"remainingCards"`
	DeckReshuffled bool          `json:"deckReshuffled"`
}

// DrawCard handles POST /deck/draw
func (h *Handler) DrawCard(w http.ResponseWriter, r *http.Request) {
	out, err := h.deckService.DrawCard(r.Context(), &deckorch.DrawCardInput{})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, drawCardResponse{
		Card:           out.Card,
		Meaning:        out.Card.Meaning(),
		RemainingCards: out.RemainingCards,
		DeckReshuffled: out.DeckReshuffled,
	})
}

type reshuffleDeckResponse struct {
	RemainingCards int `json:"remainingCards"`
	ShuffleCount   int `json:"shuffleCount"`
}

// ReshuffleDeck handles POST /deck/reshuffle
func (h *Handler) ReshuffleDeck(w http.ResponseWriter, r *http.Request) {
	out, err := h.deckService.ReshuffleDeck(r.Context(), &deckorch.ReshuffleDeckInput{})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, reshuffleDeckResponse{
		RemainingCards: out.RemainingCards,
		ShuffleCount:   out.ShuffleCount,
	})
}

type resetDeckResponse struct {
	RemainingCards int `json:"remainingCards"`
}

// ResetDeck handles POST /deck/reset
func (h *Handler) ResetDeck(w http.ResponseWriter, r *http.Request) {
	out, err := h.deckService.ResetDeck(r.Context(), &deckorch.ResetDeckInput{})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resetDeckResponse{RemainingCards: out.RemainingCards})
}

type deckInfoResponse struct {
	RemainingCards int            `json:"remainingCards"`
	DrawnCards     int            `json:"drawnCards"`
	LastDrawn      *entities.Card `json:"lastDrawn,omitempty"`
	ShuffleCount   int            `json:"shuffleCount"`
}

// GetDeckInfo handles GET /deck
func (h *Handler) GetDeckInfo(w http.ResponseWriter, r *http.Request) {
	out, err := h.deckService.GetDeckInfo(r.Context(), &deckorch.GetDeckInfoInput{})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deckInfoResponse{
		RemainingCards: out.RemainingCards,
		DrawnCards:     out.DrawnCards,
		LastDrawn:      out.LastDrawn,
		ShuffleCount:   out.ShuffleCount,
	})
}

type cardMeaningResponse struct {
	Card    entities.Card `json:"card"`
	Meaning string        `json:"meaning"`
}

// GetCardMeaning handles GET /deck/cards/{card}/meaning. The card path
// segment is a display label like "A♠" or "10♥", or "Joker".
func (h *Handler) GetCardMeaning(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "card")

	card, err := entities.ParseDisplay(label)
	if err != nil {
		respondError(w, errors.Wrap(err, "invalid card label"))
		return
	}

	out, err := h.deckService.GetCardMeaning(r.Context(), &deckorch.GetCardMeaningInput{Card: card})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cardMeaningResponse{
		Card:    card,
		Meaning: out.Meaning,
	})
}
