package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

func settings() models.DraftSettings {
	return models.DraftSettings{
		DraftID:         "d1",
		TotalTeams:      2,
		TotalRounds:     1,
		DraftType:       models.DraftTypeSnake,
		RosterPositions: []string{"QB", "RB"},
		SlotToRoster:    map[int]int{1: 10, 2: 20},
	}
}

func pick(n, slot, roster int) models.DraftPick {
	return models.DraftPick{
		PickNumber: n,
		Round:      1,
		DraftSlot:  slot,
		PlayerID:   "p",
		PlayerName: "Some Player",
		Position:   "RB",
		RosterID:   roster,
		Timestamp:  time.Date(2026, 9, 1, 20, 0, n, 0, time.UTC),
	}
}

func TestRelay_PublishesPickStateAndCompletion(t *testing.T) {
	pub := &recordingPublisher{}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 9, 1, 20, 5, 0, 0, time.UTC))
	r := NewRelay(pub, settings(), clock)

	st := state.New(settings())
	p1 := pick(1, 1, 10)
	require.NoError(t, st.AddPick(p1))
	r.HandlePick(p1)
	r.HandleState(st.Clone())

	p2 := pick(2, 2, 20)
	require.NoError(t, st.AddPick(p2))
	r.HandlePick(p2)
	r.HandleState(st.Clone())
	r.HandleState(st.Clone())

	assert.Equal(t, []string{
		TypePickMade, TypeDraftStateChanged,
		TypePickMade, TypeDraftStateChanged, TypeDraftCompleted,
		TypeDraftStateChanged,
	}, pub.types())

	var made PickMadePayload
	require.NoError(t, json.Unmarshal(pub.events[0].Payload, &made))
	assert.Equal(t, "1.01", made.Label)
	assert.Equal(t, 10, made.RosterID)
	assert.Equal(t, "d1", pub.events[0].DraftID)

	var changed DraftStateChangedPayload
	require.NoError(t, json.Unmarshal(pub.events[1].Payload, &changed))
	assert.Equal(t, 2, changed.CurrentPick)
	assert.Equal(t, 20, changed.OnTheClock)
	assert.Equal(t, "drafting", changed.Status)

	var done DraftCompletedPayload
	require.NoError(t, json.Unmarshal(pub.events[4].Payload, &done))
	assert.Equal(t, 2, done.TotalPicks)
	assert.True(t, done.CompletedAt.Equal(clock.Now()))
}

func TestRelay_PublishErrorsAreSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}
	r := NewRelay(pub, settings(), nil)

	assert.NotPanics(t, func() { r.HandlePick(pick(1, 1, 10)) })
	assert.Len(t, pub.types(), 1)
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewEvent("d1", TypePickMade, map[string]int{"x": 1}, at)
	require.NoError(t, err)
	b, err := NewEvent("d1", TypePickMade, map[string]int{"x": 1}, at)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.JSONEq(t, `{"x":1}`, string(a.Payload))

	_, err = NewEvent("d1", TypePickMade, func() {}, at)
	assert.Error(t, err)
}

func TestMessageEnvelope(t *testing.T) {
	p := &JetStreamPublisher{config: DefaultJetStreamConfig()}
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	e, err := NewEvent("d1", TypeDraftCompleted, DraftCompletedPayload{DraftID: "d1", TotalPicks: 2}, at)
	require.NoError(t, err)

	msg, err := p.message(e)
	require.NoError(t, err)
	assert.Equal(t, "draftpilot.events.d1.draft_completed", msg.Subject)
	assert.Equal(t, e.ID.String(), msg.Header.Get("Event-ID"))
	assert.Equal(t, TypeDraftCompleted, msg.Header.Get("Event-Type"))

	var env envelope
	require.NoError(t, json.Unmarshal(msg.Data, &env))
	assert.Equal(t, "d1", env.DraftID)
	assert.True(t, env.Timestamp.Equal(at))
	assert.JSONEq(t, `{"draft_id":"d1","completed_at":"0001-01-01T00:00:00Z","total_picks":2}`, string(env.Payload))
}

func TestStreamConfigCoversSubjects(t *testing.T) {
	p := &JetStreamPublisher{config: DefaultJetStreamConfig()}
	sc := p.streamConfig()
	assert.Equal(t, []string{"draftpilot.events.>"}, sc.Subjects)
	assert.True(t, isStreamConfigEqual(sc, sc))

	other := sc
	other.MaxAge = time.Hour
	assert.False(t, isStreamConfigEqual(sc, other))
}

func TestMetricPublisher_CountsOutcomes(t *testing.T) {
	pub := &recordingPublisher{}
	counters := NewCounters()
	r := NewRelay(NewMetricPublisher(pub, counters), settings(), nil)

	r.HandlePick(pick(1, 1, 10))
	pub.mu.Lock()
	pub.err = errors.New("nats down")
	pub.mu.Unlock()
	r.HandlePick(pick(2, 2, 20))

	got := counters.Snapshot()
	assert.Equal(t, 1, got[TypePickMade].Published)
	assert.Equal(t, 1, got[TypePickMade].Failed)
	assert.Len(t, pub.types(), 2)

	// A nil collector falls back to the no-op one.
	assert.NoError(t, NewMetricPublisher(&recordingPublisher{}, nil).Publish(context.Background(), Event{EventType: TypePickMade}))
}
