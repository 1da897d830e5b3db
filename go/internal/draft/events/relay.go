package events

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

const DefaultPublishTimeout = 3 * time.Second

// Relay turns draft manager callbacks into published events. Publish
// failures are logged and never reach the polling worker.
type Relay struct {
	pub      Publisher
	settings models.DraftSettings
	clock    clockwork.Clock
	timeout  time.Duration

	mu        sync.Mutex
	completed bool
}

func NewRelay(pub Publisher, settings models.DraftSettings, clock clockwork.Clock) *Relay {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Relay{
		pub:      pub,
		settings: settings.Clone(),
		clock:    clock,
		timeout:  DefaultPublishTimeout,
	}
}

// HandlePick is an OnPick callback.
func (r *Relay) HandlePick(p models.DraftPick) {
	r.publish(TypePickMade, PickMade(r.settings, p))
}

// HandleState is an OnStateChange callback. A DraftCompleted event is
// published the first time the state is complete.
func (r *Relay) HandleState(st *state.DraftState) {
	r.publish(TypeDraftStateChanged, StateChanged(st))

	if !st.IsComplete() {
		return
	}
	r.mu.Lock()
	first := !r.completed
	r.completed = true
	r.mu.Unlock()
	if first {
		r.publish(TypeDraftCompleted, Completed(st, r.clock.Now()))
	}
}

func (r *Relay) publish(eventType string, payload any) {
	event, err := NewEvent(r.settings.DraftID, eventType, payload, r.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to build event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.pub.Publish(ctx, event); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", event.DraftID).
			Str("event_type", eventType).
			Str("event_id", event.ID.String()).
			Msg("failed to publish event")
	}
}
