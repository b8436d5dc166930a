// Package v1alpha1 exposes the randomization engine over HTTP: dice rolls,
// deck operations, and the roll history.
package v1alpha1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/solo-rpg-api/internal/dice"
	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	deckorch "github.com/KirkDiggler/solo-rpg-api/internal/orchestrators/deck"
	"github.com/KirkDiggler/solo-rpg-api/internal/orchestrators/history"
)

// HandlerConfig holds dependencies for the API handler
type HandlerConfig struct {
	Evaluator      *dice.Evaluator
	DeckService    deckorch.Service
	HistoryService history.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Evaluator == nil {
		vb.RequiredField("Evaluator")
	}
	if c.DeckService == nil {
		vb.RequiredField("DeckService")
	}
	if c.HistoryService == nil {
		vb.RequiredField("HistoryService")
	}

	return vb.Build()
}

// Handler implements the v1alpha1 HTTP API
type Handler struct {
	evaluator      *dice.Evaluator
	deckService    deckorch.Service
	historyService history.Service
}

// NewHandler creates a new API handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		evaluator:      cfg.Evaluator,
		deckService:    cfg.DeckService,
		historyService: cfg.HistoryService,
	}, nil
}

// Routes returns the router for the v1alpha1 API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/dice/roll", h.RollDice)
	r.Get("/dice/history", h.GetHistory)
	r.Delete("/dice/history", h.ClearHistory)
	r.Get("/dice/history/info", h.GetHistoryInfo)

	r.Post("/deck/draw", h.DrawCard)
	r.Post("/deck/reshuffle", h.ReshuffleDeck)
	r.Post("/deck/reset", h.ResetDeck)
	r.Get("/deck", h.GetDeckInfo)
	r.Get("/deck/cards/{card}/meaning", h.GetCardMeaning)

	return r
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	respondJSON(w, code.HTTPStatus(), errorResponse{
		Code:    code.String(),
		Message: errors.GetMessage(err),
	})
}
