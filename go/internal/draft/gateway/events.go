package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/draftpilot/go/internal/draft/events"
)

// DraftEvent is the message format sent to WebSocket clients
type DraftEvent struct {
	ID        string          `json:"id"`
	DraftID   string          `json:"draft_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of draft event
type EventType string

const (
	EventTypePickMade          EventType = "PickMade"
	EventTypeDraftStateChanged EventType = "DraftStateChanged"
	EventTypeDraftCompleted    EventType = "DraftCompleted"
	// EventTypeRefresh tells clients to re-fetch whatever they render.
	EventTypeRefresh EventType = "Refresh"
)

func eventTypeFor(published string) (EventType, error) {
	switch published {
	case events.TypePickMade:
		return EventTypePickMade, nil
	case events.TypeDraftStateChanged:
		return EventTypeDraftStateChanged, nil
	case events.TypeDraftCompleted:
		return EventTypeDraftCompleted, nil
	default:
		return "", fmt.Errorf("unknown event type: %s", published)
	}
}

func newDraftEvent(draftID string, typ EventType, payload any, at time.Time) (*DraftEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", typ, err)
	}
	return &DraftEvent{
		ID:        uuid.NewString(),
		DraftID:   draftID,
		Type:      typ,
		Timestamp: at,
		Data:      data,
	}, nil
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *DraftEvent) (any, error) {
	switch event.Type {
	case EventTypePickMade:
		var payload events.PickMadePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeDraftStateChanged, EventTypeRefresh:
		var payload events.DraftStateChangedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeDraftCompleted:
		var payload events.DraftCompletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil
	}
}
