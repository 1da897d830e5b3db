package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for draft connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	defaultDraftID    string
}

func NewWebSocketHandler(cm *ConnectionManager, defaultDraftID string) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		defaultDraftID:    defaultDraftID,
	}
}

// HandleDraftConnection upgrades GET /ws/draft. draft_id defaults to the
// draft this process tracks.
func (h *WebSocketHandler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	draftID := r.URL.Query().Get("draft_id")
	if draftID == "" {
		draftID = h.defaultDraftID
	}
	if draftID == "" {
		http.Error(w, "draft_id is required", http.StatusBadRequest)
		return
	}

	// On failure the upgrader has already written an error response.
	if err := h.connectionManager.UpgradeConnection(w, r, draftID); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", draftID).
			Msg("failed to upgrade WebSocket connection")
	}
}

func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.Stats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/draft", h.HandleDraftConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
