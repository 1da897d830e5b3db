package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

// Event is one serialized draft event ready for publishing.
type Event struct {
	ID        uuid.UUID
	DraftID   string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NewEvent marshals payload into an event with a fresh id.
func NewEvent(draftID, eventType string, payload any, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		DraftID:   draftID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: at,
	}, nil
}

func PickMade(settings models.DraftSettings, p models.DraftPick) PickMadePayload {
	return PickMadePayload{
		DraftID:     settings.DraftID,
		PlayerID:    p.PlayerID,
		PlayerName:  p.PlayerName,
		Position:    p.Position,
		Team:        p.Team,
		RosterID:    p.RosterID,
		Round:       p.Round,
		Pick:        p.PickInRound(settings.TotalTeams),
		OverallPick: p.PickNumber,
		Label:       p.Label(settings.TotalTeams),
		MadeAt:      p.Timestamp,
	}
}

func StateChanged(st *state.DraftState) DraftStateChangedPayload {
	out := DraftStateChangedPayload{
		DraftID:      st.Settings.DraftID,
		Status:       string(st.Status),
		CurrentPick:  st.CurrentPick,
		CurrentRound: st.CurrentRound,
		PicksMade:    len(st.Picks),
		PickDeadline: st.PickDeadline,
	}
	if team := st.CurrentTeam(); team != nil {
		out.OnTheClock = team.RosterID
	}
	return out
}

func Completed(st *state.DraftState, at time.Time) DraftCompletedPayload {
	return DraftCompletedPayload{
		DraftID:     st.Settings.DraftID,
		CompletedAt: at,
		TotalPicks:  len(st.Picks),
	}
}
