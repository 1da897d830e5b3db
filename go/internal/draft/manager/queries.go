package manager

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mcdev12/draftpilot/go/clients/sleeper_client"
	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
	"github.com/mcdev12/draftpilot/go/internal/reconcile"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

const (
	teamRecentPicks    = 3
	summaryRecentPicks = 10
)

// OnPick registers fn to run once per newly applied pick.
func (m *Manager) OnPick(fn func(models.DraftPick)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.pickCallbacks = append(m.pickCallbacks, fn)
}

// OnStateChange registers fn to run once per poll cycle that applied at
// least one pick. fn receives a snapshot it may keep.
func (m *Manager) OnStateChange(fn func(*state.DraftState)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.stateCallbacks = append(m.stateCallbacks, fn)
}

// SetUIRefresh sets the single "re-render now" hook. Nil clears it.
func (m *Manager) SetUIRefresh(fn func()) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.uiRefresh = fn
}

// Snapshot returns a deep copy of the draft state, or nil before
// Initialize.
func (m *Manager) Snapshot() *state.DraftState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// PlayerMapping returns the provider to projection id mapping. A nil
// mapping resolves ids to themselves.
func (m *Manager) PlayerMapping() *reconcile.Mapping {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mapping
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Health is what a UI shows instead of an error dialog while the provider
// is flaky.
type Health struct {
	Status              Status    `json:"status"`
	LastUpdated         time.Time `json:"last_updated"`
	SecondsSinceUpdate  float64   `json:"seconds_since_update"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastError           string    `json:"last_error,omitempty"`
	BudgetExhausted     bool      `json:"budget_exhausted"`
	PicksApplied        int       `json:"picks_applied"`
}

func (m *Manager) Health() Health {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h := Health{
		Status:              m.status,
		LastUpdated:         m.lastSuccess,
		ConsecutiveFailures: m.failures,
		BudgetExhausted:     m.invalidRef,
	}
	if !m.lastSuccess.IsZero() {
		h.SecondsSinceUpdate = m.clock.Since(m.lastSuccess).Seconds()
	}
	if m.lastErr != nil {
		h.LastError = m.lastErr.Error()
		if m.failures > m.failureBudget && errors.Is(m.lastErr, sleeper_client.ErrProviderUnavailable) {
			h.BudgetExhausted = true
		}
	}
	if m.state != nil {
		h.PicksApplied = len(m.state.Picks)
	}
	return h
}

// DraftBoard returns a rounds x teams grid indexed by draft slot. Unfilled
// cells are nil.
func (m *Manager) DraftBoard() [][]*models.DraftPick {
	snap := m.Snapshot()
	if snap == nil {
		return nil
	}
	teams, rounds := snap.Settings.TotalTeams, snap.Settings.TotalRounds
	board := make([][]*models.DraftPick, rounds)
	for r := range board {
		board[r] = make([]*models.DraftPick, teams)
	}
	for i := range snap.Picks {
		p := &snap.Picks[i]
		r, c := p.Round-1, p.DraftSlot-1
		if r < 0 || r >= rounds || c < 0 || c >= teams {
			continue
		}
		board[r][c] = p
	}
	return board
}

// PickSummary is a compact view of a pick for needs and summaries.
type PickSummary struct {
	PickNumber int    `json:"pick_no"`
	Round      int    `json:"round"`
	PlayerName string `json:"player_name"`
	Position   string `json:"position"`
	Team       string `json:"team,omitempty"`
	DraftedBy  string `json:"drafted_by,omitempty"`
}

// TeamNeeds is one team's roster counts, open slots and latest picks.
type TeamNeeds struct {
	RosterID    int            `json:"roster_id"`
	OwnerName   string         `json:"owner_name"`
	TeamName    string         `json:"team_name"`
	TotalPicks  int            `json:"total_picks"`
	Counts      map[string]int `json:"positional_counts"`
	Needs       map[string]int `json:"positional_needs"`
	RecentPicks []PickSummary  `json:"recent_picks"`
}

func (m *Manager) TeamNeeds(rosterID int) (TeamNeeds, error) {
	snap := m.Snapshot()
	if snap == nil {
		return TeamNeeds{}, ErrNotInitialized
	}
	return teamNeeds(snap, rosterID)
}

func teamNeeds(snap *state.DraftState, rosterID int) (TeamNeeds, error) {
	roster, ok := snap.Rosters[rosterID]
	if !ok {
		return TeamNeeds{}, fmt.Errorf("roster %d: %w", rosterID, ErrUnknownRoster)
	}
	picks := snap.PicksByTeam(rosterID)

	out := TeamNeeds{
		RosterID:    rosterID,
		OwnerName:   roster.OwnerName,
		TeamName:    roster.TeamName,
		TotalPicks:  len(picks),
		Counts:      roster.Counts(),
		Needs:       roster.Needs.AsMap(),
		RecentPicks: make([]PickSummary, 0, teamRecentPicks),
	}
	for _, p := range picks[max(0, len(picks)-teamRecentPicks):] {
		out.RecentPicks = append(out.RecentPicks, PickSummary{
			PickNumber: p.PickNumber,
			Round:      p.Round,
			PlayerName: p.PlayerName,
			Position:   p.Position,
		})
	}
	return out, nil
}

// DraftInfo is the header of an exported summary.
type DraftInfo struct {
	DraftID      string             `json:"draft_id"`
	LeagueName   string             `json:"league_name"`
	Status       models.DraftStatus `json:"status"`
	CurrentPick  int                `json:"current_pick"`
	CurrentRound int                `json:"current_round"`
	TotalPicks   int                `json:"total_picks"`
	IsComplete   bool               `json:"is_complete"`
}

// Summary is a full export of the draft at one moment.
type Summary struct {
	DraftInfo   DraftInfo     `json:"draft_info"`
	Teams       []TeamNeeds   `json:"teams"`
	RecentPicks []PickSummary `json:"recent_picks"`
}

func (m *Manager) ExportSummary() (Summary, error) {
	snap := m.Snapshot()
	if snap == nil {
		return Summary{}, ErrNotInitialized
	}
	return Summarize(m.draftID, snap), nil
}

// Summarize exports snap. It is also used for replayed drafts, which have
// no manager.
func Summarize(draftID string, snap *state.DraftState) Summary {
	s := Summary{
		DraftInfo: DraftInfo{
			DraftID:      draftID,
			LeagueName:   snap.Settings.LeagueName,
			Status:       snap.Status,
			CurrentPick:  snap.CurrentPick,
			CurrentRound: snap.CurrentRound,
			TotalPicks:   len(snap.Picks),
			IsComplete:   snap.IsComplete(),
		},
	}

	ids := make([]int, 0, len(snap.Rosters))
	for id := range snap.Rosters {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		tn, err := teamNeeds(snap, id)
		if err != nil {
			continue
		}
		s.Teams = append(s.Teams, tn)
	}

	for _, p := range snap.RecentPicks(summaryRecentPicks) {
		by := "Unknown"
		if r, ok := snap.Rosters[p.RosterID]; ok && r.OwnerName != "" {
			by = r.OwnerName
		}
		s.RecentPicks = append(s.RecentPicks, PickSummary{
			PickNumber: p.PickNumber,
			Round:      p.Round,
			PlayerName: p.PlayerName,
			Position:   p.Position,
			Team:       p.Team,
			DraftedBy:  by,
		})
	}
	return s
}

// Recommend runs the VORP engine against a fresh snapshot for rosterID.
// Before Initialize it returns pre-draft static values.
func (m *Manager) Recommend(engine *vorp.Engine, players []models.Player, adp map[string]float64, rosterID int) (*vorp.Result, error) {
	m.mu.RLock()
	snap := m.state.Clone()
	mapping := m.mapping
	m.mu.RUnlock()

	req := vorp.Request{Players: players, ADPRanks: adp}
	if snap != nil {
		req.State = snap
		req.RosterID = rosterID
		req.IDs = mapping
	}
	return engine.Compute(req)
}
