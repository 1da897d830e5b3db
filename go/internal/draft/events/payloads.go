package events

import (
	"time"
)

// Event types published for a tracked draft. They double as the last
// subject token.
const (
	TypePickMade          = "pick_made"
	TypeDraftStateChanged = "draft_state_changed"
	TypeDraftCompleted    = "draft_completed"
)

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	DraftID     string    `json:"draft_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Position    string    `json:"position"`
	Team        string    `json:"team"`
	RosterID    int       `json:"roster_id"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"`
	OverallPick int       `json:"overall_pick"`
	Label       string    `json:"label"`
	MadeAt      time.Time `json:"made_at"`
}

// DraftStateChangedPayload is sent once per poll cycle that applied picks
type DraftStateChangedPayload struct {
	DraftID      string     `json:"draft_id"`
	Status       string     `json:"status"`
	CurrentPick  int        `json:"current_pick"`
	CurrentRound int        `json:"current_round"`
	PicksMade    int        `json:"picks_made"`
	OnTheClock   int        `json:"on_the_clock,omitempty"`
	PickDeadline *time.Time `json:"pick_deadline,omitempty"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}
