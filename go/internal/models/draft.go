package models

// DraftType defines how pick order advances between rounds.
type DraftType string

const (
	DraftTypeSnake  DraftType = "snake"
	DraftTypeLinear DraftType = "linear"
)

// DraftStatus mirrors the provider's draft lifecycle.
type DraftStatus string

const (
	DraftStatusPreDraft DraftStatus = "pre_draft"
	DraftStatusDrafting DraftStatus = "drafting"
	DraftStatusPaused   DraftStatus = "paused"
	DraftStatusComplete DraftStatus = "complete"
)

// ParseDraftType maps a provider draft type onto the supported set.
// Anything that is not explicitly linear is treated as snake.
func ParseDraftType(s string) DraftType {
	if DraftType(s) == DraftTypeLinear {
		return DraftTypeLinear
	}
	return DraftTypeSnake
}

// ParseDraftStatus maps a provider status, defaulting to pre_draft.
func ParseDraftStatus(s string) DraftStatus {
	switch DraftStatus(s) {
	case DraftStatusDrafting, DraftStatusPaused, DraftStatusComplete:
		return DraftStatus(s)
	default:
		return DraftStatusPreDraft
	}
}

// DraftSettings holds the league configuration a draft runs under.
// It is built once during initialization and never mutated afterwards.
type DraftSettings struct {
	LeagueID        string         `json:"league_id"`
	DraftID         string         `json:"draft_id"`
	LeagueName      string         `json:"league_name"`
	TotalTeams      int            `json:"total_teams"`
	TotalRounds     int            `json:"total_rounds"`
	PickTimerSec    int            `json:"pick_timer_sec"`
	DraftType       DraftType      `json:"draft_type"`
	ScoringType     string         `json:"scoring_type"`
	RosterPositions []string       `json:"roster_positions"`
	DraftOrder      map[string]int `json:"draft_order,omitempty"`    // user id -> draft slot
	SlotToRoster    map[int]int    `json:"slot_to_roster,omitempty"` // draft slot -> roster id
}

// TotalPicks is the number of picks in a complete draft.
func (s DraftSettings) TotalPicks() int {
	return s.TotalTeams * s.TotalRounds
}

// Clone returns a copy that shares no maps or slices with s.
func (s DraftSettings) Clone() DraftSettings {
	out := s
	out.RosterPositions = append([]string(nil), s.RosterPositions...)
	if s.DraftOrder != nil {
		out.DraftOrder = make(map[string]int, len(s.DraftOrder))
		for k, v := range s.DraftOrder {
			out.DraftOrder[k] = v
		}
	}
	if s.SlotToRoster != nil {
		out.SlotToRoster = make(map[int]int, len(s.SlotToRoster))
		for k, v := range s.SlotToRoster {
			out.SlotToRoster[k] = v
		}
	}
	return out
}
