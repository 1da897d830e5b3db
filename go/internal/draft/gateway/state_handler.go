package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/internal/draft/manager"
	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
	"github.com/mcdev12/draftpilot/go/internal/projections"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

const (
	defaultRecommendationLimit = 20
	stateRecentPicks           = 10
)

// DraftSource is the read side of the draft manager.
type DraftSource interface {
	DraftID() string
	Snapshot() *state.DraftState
	DraftBoard() [][]*models.DraftPick
	TeamNeeds(rosterID int) (manager.TeamNeeds, error)
	ExportSummary() (manager.Summary, error)
	Health() manager.Health
	Recommend(engine *vorp.Engine, players []models.Player, adp map[string]float64, rosterID int) (*vorp.Result, error)
}

// DraftStateResponse is the current draft state as served to clients
type DraftStateResponse struct {
	DraftID        string             `json:"draft_id"`
	LeagueName     string             `json:"league_name"`
	Status         models.DraftStatus `json:"status"`
	CurrentPick    int                `json:"current_pick"`
	CurrentRound   int                `json:"current_round"`
	TotalPicks     int                `json:"total_picks"`
	CompletedPicks int                `json:"completed_picks"`
	OnTheClock     *OnTheClock        `json:"on_the_clock,omitempty"`
	TimeRemaining  *int               `json:"time_remaining_sec,omitempty"`
	RecentPicks    []RecentPickInfo   `json:"recent_picks"`
	Health         manager.Health     `json:"health"`
}

// OnTheClock identifies the team currently picking
type OnTheClock struct {
	RosterID  int    `json:"roster_id"`
	OwnerName string `json:"owner_name"`
	TeamName  string `json:"team_name"`
	DraftSlot int    `json:"draft_slot"`
}

// RecentPickInfo represents a recently made pick
type RecentPickInfo struct {
	Label      string    `json:"label"`
	RosterID   int       `json:"roster_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Position   string    `json:"position"`
	Team       string    `json:"team"`
	Round      int       `json:"round"`
	PickNumber int       `json:"pick_number"`
	MadeAt     time.Time `json:"made_at"`
}

// RecommendationsResponse is the ranked list plus board insights.
type RecommendationsResponse struct {
	RosterID      int                `json:"roster_id,omitempty"`
	IsDynamic     bool               `json:"is_dynamic"`
	Players       []vorp.Metrics     `json:"players"`
	DynamicLevels map[string]float64 `json:"dynamic_levels"`
	Insights      vorp.Insights      `json:"insights"`
}

// StateHandler serves draft state and recommendations over HTTP
type StateHandler struct {
	source      DraftSource
	engine      *vorp.Engine
	projections *projections.Snapshot
	clock       clockwork.Clock
}

// NewStateHandler creates a new state handler. Recommendations return 503
// when snap is nil.
func NewStateHandler(source DraftSource, engine *vorp.Engine, snap *projections.Snapshot, clock clockwork.Clock) *StateHandler {
	if engine == nil {
		engine = vorp.NewEngine()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &StateHandler{
		source:      source,
		engine:      engine,
		projections: snap,
		clock:       clock,
	}
}

// HandleGetDraftState handles GET /api/draft
func (h *StateHandler) HandleGetDraftState(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Snapshot()
	if snap == nil {
		writeError(w, manager.ErrNotInitialized)
		return
	}

	resp := DraftStateResponse{
		DraftID:        h.source.DraftID(),
		LeagueName:     snap.Settings.LeagueName,
		Status:         snap.Status,
		CurrentPick:    snap.CurrentPick,
		CurrentRound:   snap.CurrentRound,
		TotalPicks:     snap.Settings.TotalPicks(),
		CompletedPicks: len(snap.Picks),
		RecentPicks:    make([]RecentPickInfo, 0, stateRecentPicks),
		Health:         h.source.Health(),
	}
	if team := snap.CurrentTeam(); team != nil {
		resp.OnTheClock = &OnTheClock{
			RosterID:  team.RosterID,
			OwnerName: team.OwnerName,
			TeamName:  team.TeamName,
			DraftSlot: snap.CurrentDraftSlot,
		}
	}
	if snap.PickDeadline != nil {
		remaining := int(snap.PickDeadline.Sub(h.clock.Now()).Seconds())
		if remaining > 0 {
			resp.TimeRemaining = &remaining
		}
	}
	for _, p := range snap.RecentPicks(stateRecentPicks) {
		resp.RecentPicks = append(resp.RecentPicks, RecentPickInfo{
			Label:      p.Label(snap.Settings.TotalTeams),
			RosterID:   p.RosterID,
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			Position:   p.Position,
			Team:       p.Team,
			Round:      p.Round,
			PickNumber: p.PickNumber,
			MadeAt:     p.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetBoard handles GET /api/draft/board
func (h *StateHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	board := h.source.DraftBoard()
	if board == nil {
		writeError(w, manager.ErrNotInitialized)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleGetTeamNeeds handles GET /api/draft/teams/{rosterID}/needs
func (h *StateHandler) HandleGetTeamNeeds(w http.ResponseWriter, r *http.Request) {
	rosterID, err := strconv.Atoi(r.PathValue("rosterID"))
	if err != nil || rosterID <= 0 {
		http.Error(w, "Invalid roster ID", http.StatusBadRequest)
		return
	}
	needs, err := h.source.TeamNeeds(rosterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, needs)
}

// HandleGetSummary handles GET /api/draft/summary
func (h *StateHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.source.ExportSummary()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleGetRecommendations handles
// GET /api/recommendations?roster_id=&limit=&position=
func (h *StateHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if h.projections == nil {
		http.Error(w, "No projections loaded", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	rosterID := 0
	if v := q.Get("roster_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid roster_id", http.StatusBadRequest)
			return
		}
		rosterID = id
	}
	limit := defaultRecommendationLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	res, err := h.source.Recommend(h.engine, h.projections.Players, h.projections.ADP, rosterID)
	if err != nil {
		writeError(w, err)
		return
	}

	players := res.Players
	if pos := q.Get("position"); pos != "" {
		players = res.ByPosition(strings.ToUpper(pos))
	}
	if len(players) > limit {
		players = players[:limit]
	}

	resp := RecommendationsResponse{
		RosterID:      rosterID,
		IsDynamic:     res.Context != nil,
		Players:       players,
		DynamicLevels: res.DynamicLevels,
	}
	var snap *state.DraftState
	if resp.IsDynamic {
		snap = h.source.Snapshot()
	}
	resp.Insights = vorp.BuildInsights(res, snap, rosterID)
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetHealth handles GET /api/draft/health
func (h *StateHandler) HandleGetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.source.Health())
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/draft", h.HandleGetDraftState)
	mux.HandleFunc("GET /api/draft/board", h.HandleGetBoard)
	mux.HandleFunc("GET /api/draft/health", h.HandleGetHealth)
	mux.HandleFunc("GET /api/draft/summary", h.HandleGetSummary)
	mux.HandleFunc("GET /api/draft/teams/{rosterID}/needs", h.HandleGetTeamNeeds)
	mux.HandleFunc("GET /api/recommendations", h.HandleGetRecommendations)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, manager.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, manager.ErrUnknownRoster), errors.Is(err, vorp.ErrUnknownTeam):
		return http.StatusNotFound
	case errors.Is(err, vorp.ErrTeamRequired):
		return http.StatusBadRequest
	case errors.Is(err, vorp.ErrInsufficientPlayerPool):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Msg("draft API request failed")
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
