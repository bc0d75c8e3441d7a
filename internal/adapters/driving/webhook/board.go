package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nativz/cortex-sync/internal/core/ports/driving"
)

// BoardHandler ingests monday.com webhook deliveries: item events on
// the configured board trigger a single-item re-sync.
type BoardHandler struct {
	orchestrator driving.SyncOrchestrator
	boardID      string
	log          zerolog.Logger
}

// NewBoardHandler builds the board webhook handler bound to one board.
func NewBoardHandler(orchestrator driving.SyncOrchestrator, boardID string, log zerolog.Logger) *BoardHandler {
	return &BoardHandler{orchestrator: orchestrator, boardID: boardID, log: log}
}

type boardEvent struct {
	Type    string      `json:"type"`
	BoardID json.Number `json:"boardId"`
	PulseID json.Number `json:"pulseId"`
	ItemID  json.Number `json:"itemId"`
}

type boardPayload struct {
	// Challenge is sent once when the webhook is registered and must
	// be echoed back verbatim.
	Challenge string      `json:"challenge"`
	Event     *boardEvent `json:"event"`
}

func (h *BoardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload boardPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error":"malformed payload"}`, http.StatusBadRequest)
		return
	}

	if payload.Challenge != "" {
		writeJSON(w, http.StatusOK, map[string]string{"challenge": payload.Challenge})
		return
	}

	if payload.Event == nil {
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "ignored"})
		return
	}

	if payload.Event.BoardID.String() != h.boardID {
		h.log.Debug().Str("board", payload.Event.BoardID.String()).Msg("event for other board ignored")
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "board ignored"})
		return
	}

	itemID := payload.Event.PulseID.String()
	if itemID == "" {
		itemID = payload.Event.ItemID.String()
	}
	if itemID == "" {
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "no item"})
		return
	}

	// 2xx regardless of outcome: the delivery was accepted, failures
	// are an operational concern, not the sender's.
	result, err := h.orchestrator.SyncBoardItemByID(r.Context(), itemID)
	if err != nil {
		h.log.Error().Err(err).Str("item_id", itemID).Msg("board item sync failed")
		writeJSON(w, http.StatusOK, map[string]string{"message": "accepted"})
		return
	}

	h.log.Info().Str("item_id", itemID).Str("action", string(result.Action)).Msg("board event processed")
	writeJSON(w, http.StatusOK, map[string]any{
		"entity": result.Entity,
		"action": result.Action,
	})
}
