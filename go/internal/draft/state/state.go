package state

import (
	"fmt"
	"sort"
	"time"

	"github.com/mcdev12/draftpilot/go/internal/models"
)

// DraftState is the authoritative in-memory picture of a live draft.
//
// It is not safe for concurrent use. The draft manager owns the only
// writable instance and hands out Clone()d snapshots to readers.
type DraftState struct {
	Settings         models.DraftSettings       `json:"settings"`
	Status           models.DraftStatus         `json:"status"`
	CurrentPick      int                        `json:"current_pick"`
	CurrentRound     int                        `json:"current_round"`
	CurrentDraftSlot int                        `json:"current_draft_slot"`
	Picks            []models.DraftPick         `json:"picks"`
	Rosters          map[int]*models.TeamRoster `json:"rosters"`
	Available        map[string]models.Player   `json:"-"`
	LastPickTime     *time.Time                 `json:"last_pick_time,omitempty"`
	PickDeadline     *time.Time                 `json:"pick_deadline,omitempty"`
}

// New builds an empty state for settings. Every roster id named in the
// slot mapping gets an empty roster with needs computed.
func New(settings models.DraftSettings) *DraftState {
	s := &DraftState{
		Settings:         settings.Clone(),
		Status:           models.DraftStatusPreDraft,
		CurrentPick:      1,
		CurrentRound:     1,
		CurrentDraftSlot: 1,
		Rosters:          make(map[int]*models.TeamRoster, len(settings.SlotToRoster)),
	}
	for _, rosterID := range settings.SlotToRoster {
		r := models.NewTeamRoster(rosterID)
		r.CalculateNeeds(s.Settings.RosterPositions)
		s.Rosters[rosterID] = r
	}
	return s
}

// Initialize builds a state and replays existing picks through AddPick.
// Picks may arrive in any order but must form the contiguous sequence
// 1..n without duplicates.
func Initialize(settings models.DraftSettings, existing []models.DraftPick) (*DraftState, error) {
	s := New(settings)

	sorted := append([]models.DraftPick(nil), existing...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PickNumber < sorted[j].PickNumber
	})

	for _, p := range sorted {
		if err := s.AddPick(p); err != nil {
			return nil, fmt.Errorf("replay pick %d: %w", p.PickNumber, err)
		}
	}
	return s, nil
}

// AddPick applies the next pick. Any pick other than CurrentPick is
// rejected with ErrOutOfOrderPick and nothing is mutated.
func (s *DraftState) AddPick(pick models.DraftPick) error {
	if s.IsComplete() {
		return fmt.Errorf("pick %d: %w", pick.PickNumber, ErrDraftComplete)
	}
	if pick.PickNumber != s.CurrentPick {
		return fmt.Errorf("expected pick %d, got %d: %w", s.CurrentPick, pick.PickNumber, ErrOutOfOrderPick)
	}

	s.Picks = append(s.Picks, pick)

	if roster, ok := s.Rosters[pick.RosterID]; ok {
		roster.AddPlayer(pick.PlayerID, pick.Position)
		roster.CalculateNeeds(s.Settings.RosterPositions)
	}
	if s.Available != nil {
		delete(s.Available, pick.PlayerID)
	}

	s.CurrentPick++
	s.CurrentRound = RoundForPick(s.CurrentPick, s.Settings.TotalTeams)
	s.CurrentDraftSlot = SlotForPick(s.CurrentPick, s.Settings.TotalTeams, s.Settings.DraftType)

	if !pick.Timestamp.IsZero() {
		ts := pick.Timestamp
		s.LastPickTime = &ts
		if s.Settings.PickTimerSec > 0 {
			deadline := ts.Add(time.Duration(s.Settings.PickTimerSec) * time.Second)
			s.PickDeadline = &deadline
		}
	}

	switch {
	case s.IsComplete():
		s.Status = models.DraftStatusComplete
		s.PickDeadline = nil
	case s.Status == models.DraftStatusPreDraft:
		s.Status = models.DraftStatusDrafting
	}
	return nil
}

// IsComplete reports whether every pick has been made.
func (s *DraftState) IsComplete() bool {
	return s.CurrentPick > s.Settings.TotalPicks()
}

// CurrentTeam returns the roster on the clock, or nil when the draft is
// complete or the slot has no roster mapping (mock drafts).
func (s *DraftState) CurrentTeam() *models.TeamRoster {
	if s.IsComplete() {
		return nil
	}
	rosterID, ok := s.Settings.SlotToRoster[s.CurrentDraftSlot]
	if !ok {
		return nil
	}
	return s.Rosters[rosterID]
}

// NextPickSlots returns the draft slots for the next n picks starting
// with the current one, stopping at the end of the draft.
func (s *DraftState) NextPickSlots(n int) []int {
	total := s.Settings.TotalPicks()
	out := make([]int, 0, n)
	for pick := s.CurrentPick; pick < s.CurrentPick+n && pick <= total; pick++ {
		out = append(out, SlotForPick(pick, s.Settings.TotalTeams, s.Settings.DraftType))
	}
	return out
}

// SlotForRoster returns the draft slot owned by rosterID.
func (s *DraftState) SlotForRoster(rosterID int) (int, bool) {
	for slot, id := range s.Settings.SlotToRoster {
		if id == rosterID {
			return slot, true
		}
	}
	return 0, false
}

// PicksUntilNextTurn returns how many picks separate the current pick from
// rosterID's next turn. Zero means the team is on the clock; -1 means the
// team picks no more or is unknown.
func (s *DraftState) PicksUntilNextTurn(rosterID int) int {
	slot, ok := s.SlotForRoster(rosterID)
	if !ok || s.IsComplete() {
		return -1
	}
	if s.CurrentDraftSlot == slot {
		return 0
	}
	next := NextPickForSlot(slot, s.CurrentPick, s.Settings.TotalTeams, s.Settings.TotalRounds, s.Settings.DraftType)
	if next == 0 {
		return -1
	}
	return next - s.CurrentPick
}

// TurnGap returns the number of picks between rosterID's upcoming turn
// and the turn after it, i.e. how long the team waits once it has picked.
// Zero means there is no later turn.
func (s *DraftState) TurnGap(rosterID int) int {
	slot, ok := s.SlotForRoster(rosterID)
	if !ok || s.IsComplete() {
		return 0
	}
	teams, rounds, typ := s.Settings.TotalTeams, s.Settings.TotalRounds, s.Settings.DraftType
	upcoming := NextPickForSlot(slot, s.CurrentPick-1, teams, rounds, typ)
	if upcoming == 0 {
		return 0
	}
	following := NextPickForSlot(slot, upcoming, teams, rounds, typ)
	if following == 0 {
		return 0
	}
	return following - upcoming
}

// PicksByRound returns the picks made in round, in pick order.
func (s *DraftState) PicksByRound(round int) []models.DraftPick {
	var out []models.DraftPick
	for _, p := range s.Picks {
		if p.Round == round {
			out = append(out, p)
		}
	}
	return out
}

// PicksByTeam returns the picks made by rosterID, in pick order.
func (s *DraftState) PicksByTeam(rosterID int) []models.DraftPick {
	var out []models.DraftPick
	for _, p := range s.Picks {
		if p.RosterID == rosterID {
			out = append(out, p)
		}
	}
	return out
}

// RecentPicks returns up to n most recent picks, oldest first.
func (s *DraftState) RecentPicks(n int) []models.DraftPick {
	start := max(0, len(s.Picks)-n)
	return append([]models.DraftPick(nil), s.Picks[start:]...)
}

// DraftedPlayerIDs returns the set of provider player ids already taken.
func (s *DraftState) DraftedPlayerIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Picks))
	for _, p := range s.Picks {
		out[p.PlayerID] = struct{}{}
	}
	return out
}

// DraftedCountByPosition counts league-wide picks per position.
func (s *DraftState) DraftedCountByPosition() map[string]int {
	out := make(map[string]int)
	for _, p := range s.Picks {
		out[p.Position]++
	}
	return out
}

// TrackAvailable seeds the available-player index. Players already
// drafted are left out.
func (s *DraftState) TrackAvailable(players []models.Player) {
	drafted := s.DraftedPlayerIDs()
	s.Available = make(map[string]models.Player, len(players))
	for _, p := range players {
		if _, taken := drafted[p.ID]; taken {
			continue
		}
		s.Available[p.ID] = p
	}
}

// AvailableByPosition returns tracked available players at position,
// best projection first. Empty when no index is tracked.
func (s *DraftState) AvailableByPosition(position string) []models.Player {
	var out []models.Player
	for _, p := range s.Available {
		if p.Position == position {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProjectedPoints != out[j].ProjectedPoints {
			return out[i].ProjectedPoints > out[j].ProjectedPoints
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Clone returns a deep copy suitable for handing to readers.
func (s *DraftState) Clone() *DraftState {
	if s == nil {
		return nil
	}
	out := *s
	out.Settings = s.Settings.Clone()
	out.Picks = make([]models.DraftPick, len(s.Picks))
	for i, p := range s.Picks {
		out.Picks[i] = clonePick(p)
	}
	out.Rosters = make(map[int]*models.TeamRoster, len(s.Rosters))
	for id, r := range s.Rosters {
		out.Rosters[id] = r.Clone()
	}
	if s.Available != nil {
		out.Available = make(map[string]models.Player, len(s.Available))
		for id, p := range s.Available {
			out.Available[id] = p
		}
	}
	if s.LastPickTime != nil {
		t := *s.LastPickTime
		out.LastPickTime = &t
	}
	if s.PickDeadline != nil {
		t := *s.PickDeadline
		out.PickDeadline = &t
	}
	return &out
}

func clonePick(p models.DraftPick) models.DraftPick {
	if p.Metadata != nil {
		md := make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			md[k] = v
		}
		p.Metadata = md
	}
	return p
}
