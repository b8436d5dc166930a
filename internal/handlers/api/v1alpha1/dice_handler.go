package v1alpha1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirkDiggler/solo-rpg-api/internal/dice"
	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	"github.com/KirkDiggler/solo-rpg-api/internal/orchestrators/history"
	rollhistory "github.com/KirkDiggler/solo-rpg-api/internal/repositories/roll_history"
)

type rollDiceRequest struct {
	Notation string `json:"notation"`
}

type rollDiceResponse struct {
	*dice.RollResult
	EntryID string `json:"entryId,omitempty"`
}

// RollDice handles POST /dice/roll. Rolls the submitted notation and logs
// valid rolls to the history. Invalid notation still returns 200 with the
// sentinel result so clients render it the same way as any other roll.
func (h *Handler) RollDice(w http.ResponseWriter, r *http.Request) {
	var req rollDiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidArgument("request body must be JSON with a notation field"))
		return
	}
	if req.Notation == "" {
		respondError(w, errors.InvalidArgument("notation is required"))
		return
	}

	result := h.evaluator.Evaluate(req.Notation)

	resp := rollDiceResponse{RollResult: result}
	if result.Breakdown != dice.InvalidBreakdown {
		logged, err := h.historyService.AddRoll(r.Context(), &history.AddRollInput{
			Notation:  result.Notation,
			Result:    result.Total,
			Breakdown: result.Breakdown,
		})
		if err != nil {
			// The roll already happened; history is best effort.
			slog.Warn("failed to log roll to history",
				"notation", result.Notation,
				"error", err,
			)
		} else {
			resp.EntryID = logged.Entry.ID
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

type getHistoryResponse struct {
	Entries []rollhistory.Entry `json:"entries"`
}

// GetHistory handles GET /dice/history, newest roll first
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	out, err := h.historyService.GetHistory(r.Context(), &history.GetHistoryInput{})
	if err != nil {
		respondError(w, err)
		return
	}

	entries := out.Entries
	if entries == nil {
		entries = []rollhistory.Entry{}
	}
	respondJSON(w, http.StatusOK, getHistoryResponse{Entries: entries})
}

type clearHistoryResponse struct {
	EntriesCleared int `json:"entriesCleared"`
}

// ClearHistory handles DELETE /dice/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	out, err := h.historyService.ClearHistory(r.Context(), &history.ClearHistoryInput{})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, clearHistoryResponse{EntriesCleared: out.EntriesCleared})
}

type historyInfoResponse struct {
	TotalRolls  int     `json:"totalRolls"`
	MaxEntries  int     `json:"maxEntries"`
	OldestEntry *string `json:"oldestEntry,omitempty"`
	NewestEntry *string `json:"newestEntry,omitempty"`
}

// GetHistoryInfo handles GET /dice/history/info
func (h *Handler) GetHistoryInfo(w http.ResponseWriter, r *http.Request) {
	out, err := h.historyService.GetHistoryInfo(r.Context(), &history.GetHistoryInfoInput{})
	if err != nil {
		respondError(w, err)
		return
	}

	resp := historyInfoResponse{
		TotalRolls: out.TotalRolls,
		MaxEntries: out.MaxEntries,
	}
	if out.OldestEntry != nil {
		s := out.OldestEntry.UTC().Format(time.RFC3339)
		resp.OldestEntry = &s
	}
	if out.NewestEntry != nil {
		s := out.NewestEntry.UTC().Format(time.RFC3339)
		resp.NewestEntry = &s
	}

	respondJSON(w, http.StatusOK, resp)
}
