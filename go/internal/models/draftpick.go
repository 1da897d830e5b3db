package models

import "time"

// DraftPick represents a single completed pick in a draft.
type DraftPick struct {
	PickNumber int               `json:"pick_number"` // overall, 1-based
	Round      int               `json:"round"`
	DraftSlot  int               `json:"draft_slot"`
	PlayerID   string            `json:"player_id"`
	PlayerName string            `json:"player_name"`
	Position   string            `json:"position"`
	Team       string            `json:"team"`
	RosterID   int               `json:"roster_id"`
	PickedBy   string            `json:"picked_by"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// PickInRound is the 1-based position of the pick within its round.
func (p DraftPick) PickInRound(totalTeams int) int {
	if totalTeams <= 0 {
		return 0
	}
	return ((p.PickNumber - 1) % totalTeams) + 1
}

// Label renders the conventional "round.pick" label, e.g. "3.07".
func (p DraftPick) Label(totalTeams int) string {
	return formatPickLabel(p.Round, p.PickInRound(totalTeams))
}
