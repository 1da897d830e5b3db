package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/draftpilot/go/internal/draft/events"
	"github.com/mcdev12/draftpilot/go/internal/draft/manager"
	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
	"github.com/mcdev12/draftpilot/go/internal/projections"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

var start = time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

type fakeSource struct {
	st *state.DraftState
}

func (f *fakeSource) DraftID() string { return "d1" }

func (f *fakeSource) Snapshot() *state.DraftState { return f.st.Clone() }

func (f *fakeSource) DraftBoard() [][]*models.DraftPick {
	if f.st == nil {
		return nil
	}
	board := make([][]*models.DraftPick, f.st.Settings.TotalRounds)
	for r := range board {
		board[r] = make([]*models.DraftPick, f.st.Settings.TotalTeams)
	}
	for i := range f.st.Picks {
		p := f.st.Picks[i]
		board[p.Round-1][p.DraftSlot-1] = &p
	}
	return board
}

func (f *fakeSource) TeamNeeds(rosterID int) (manager.TeamNeeds, error) {
	if f.st == nil {
		return manager.TeamNeeds{}, manager.ErrNotInitialized
	}
	r, ok := f.st.Rosters[rosterID]
	if !ok {
		return manager.TeamNeeds{}, fmt.Errorf("roster %d: %w", rosterID, manager.ErrUnknownRoster)
	}
	return manager.TeamNeeds{RosterID: rosterID, OwnerName: r.OwnerName, Counts: r.Counts()}, nil
}

func (f *fakeSource) ExportSummary() (manager.Summary, error) {
	if f.st == nil {
		return manager.Summary{}, manager.ErrNotInitialized
	}
	return manager.Summary{DraftInfo: manager.DraftInfo{DraftID: "d1", TotalPicks: len(f.st.Picks)}}, nil
}

func (f *fakeSource) Health() manager.Health {
	return manager.Health{Status: manager.StatusMonitoring}
}

func (f *fakeSource) Recommend(engine *vorp.Engine, players []models.Player, adp map[string]float64, rosterID int) (*vorp.Result, error) {
	req := vorp.Request{Players: players, ADPRanks: adp}
	if f.st != nil {
		req.State = f.st.Clone()
		req.RosterID = rosterID
	}
	return engine.Compute(req)
}

// liveSource is a two-team, two-round snake draft with one pick made.
func liveSource(t *testing.T) *fakeSource {
	t.Helper()
	settings := models.DraftSettings{
		DraftID:         "d1",
		LeagueName:      "Test League",
		TotalTeams:      2,
		TotalRounds:     2,
		PickTimerSec:    120,
		DraftType:       models.DraftTypeSnake,
		RosterPositions: []string{"QB", "RB", "BN"},
		SlotToRoster:    map[int]int{1: 10, 2: 20},
	}
	st, err := state.Initialize(settings, []models.DraftPick{{
		PickNumber: 1,
		Round:      1,
		DraftSlot:  1,
		PlayerID:   "RB1",
		PlayerName: "Rb One",
		Position:   "RB",
		Team:       "KC",
		RosterID:   10,
		Timestamp:  start,
	}})
	require.NoError(t, err)
	st.Rosters[20].OwnerName = "owner20"
	return &fakeSource{st: st}
}

func testProjections() *projections.Snapshot {
	return &projections.Snapshot{
		Players: []models.Player{
			{ID: "QB1", Name: "Qb One", Position: "QB", ProjectedPoints: 380},
			{ID: "QB2", Name: "Qb Two", Position: "QB", ProjectedPoints: 300},
			{ID: "RB1", Name: "Rb One", Position: "RB", ProjectedPoints: 300},
			{ID: "RB2", Name: "Rb Two", Position: "RB", ProjectedPoints: 260},
			{ID: "RB3", Name: "Rb Three", Position: "RB", ProjectedPoints: 200},
			{ID: "WR1", Name: "Wr One", Position: "WR", ProjectedPoints: 280},
			{ID: "WR2", Name: "Wr Two", Position: "WR", ProjectedPoints: 220},
		},
		ADP: map[string]float64{"QB1": 5},
	}
}

func newTestMux(src DraftSource, snap *projections.Snapshot) *http.ServeMux {
	clock := clockwork.NewFakeClockAt(start.Add(30 * time.Second))
	mux := http.NewServeMux()
	NewStateHandler(src, vorp.NewEngine(vorp.WithDefaultTeams(2)), snap, clock).RegisterStateRoutes(mux)
	return mux
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetDraftState(t *testing.T) {
	rec := get(t, newTestMux(liveSource(t), nil), "/api/draft")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp DraftStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "d1", resp.DraftID)
	assert.Equal(t, "Test League", resp.LeagueName)
	assert.Equal(t, models.DraftStatusDrafting, resp.Status)
	assert.Equal(t, 2, resp.CurrentPick)
	assert.Equal(t, 4, resp.TotalPicks)
	assert.Equal(t, 1, resp.CompletedPicks)
	require.NotNil(t, resp.OnTheClock)
	assert.Equal(t, 20, resp.OnTheClock.RosterID)
	assert.Equal(t, "owner20", resp.OnTheClock.OwnerName)
	require.NotNil(t, resp.TimeRemaining)
	assert.Equal(t, 90, *resp.TimeRemaining)
	require.Len(t, resp.RecentPicks, 1)
	assert.Equal(t, "1.01", resp.RecentPicks[0].Label)
	assert.Equal(t, manager.StatusMonitoring, resp.Health.Status)
}

func TestHandlers_NotInitialized(t *testing.T) {
	mux := newTestMux(&fakeSource{}, nil)
	for _, path := range []string{"/api/draft", "/api/draft/board", "/api/draft/summary", "/api/draft/teams/1/needs"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, path).Code)
		})
	}
}

func TestGetBoard(t *testing.T) {
	rec := get(t, newTestMux(liveSource(t), nil), "/api/draft/board")
	require.Equal(t, http.StatusOK, rec.Code)

	var board [][]*models.DraftPick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	require.Len(t, board, 2)
	require.NotNil(t, board[0][0])
	assert.Equal(t, "RB1", board[0][0].PlayerID)
	assert.Nil(t, board[0][1])
}

func TestGetTeamNeeds(t *testing.T) {
	mux := newTestMux(liveSource(t), nil)

	rec := get(t, mux, "/api/draft/teams/10/needs")
	require.Equal(t, http.StatusOK, rec.Code)
	var needs manager.TeamNeeds
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &needs))
	assert.Equal(t, 10, needs.RosterID)
	assert.Equal(t, 1, needs.Counts["RB"])

	assert.Equal(t, http.StatusNotFound, get(t, mux, "/api/draft/teams/99/needs").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, mux, "/api/draft/teams/abc/needs").Code)
}

func TestGetRecommendations_Live(t *testing.T) {
	mux := newTestMux(liveSource(t), testProjections())

	rec := get(t, mux, "/api/recommendations?roster_id=20&limit=3")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsDynamic)
	assert.Equal(t, 20, resp.RosterID)
	assert.Len(t, resp.Players, 3)
	for _, p := range resp.Players {
		assert.NotEqual(t, "RB1", p.PlayerID, "drafted players are not recommended")
	}
	assert.Equal(t, 1, resp.Insights.PicksMade)

	rec = get(t, mux, "/api/recommendations?roster_id=20&position=wr")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Players, 2)
	for _, p := range resp.Players {
		assert.Equal(t, "WR", p.Position)
	}
}

func TestGetRecommendations_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  DraftSource
		snap *projections.Snapshot
		path string
		want int
	}{
		{"no projections", liveSource(t), nil, "/api/recommendations?roster_id=10", http.StatusServiceUnavailable},
		{"team required", liveSource(t), testProjections(), "/api/recommendations", http.StatusBadRequest},
		{"unknown team", liveSource(t), testProjections(), "/api/recommendations?roster_id=99", http.StatusNotFound},
		{"bad roster id", liveSource(t), testProjections(), "/api/recommendations?roster_id=x", http.StatusBadRequest},
		{"bad limit", liveSource(t), testProjections(), "/api/recommendations?roster_id=10&limit=0", http.StatusBadRequest},
		{"empty pool", liveSource(t), &projections.Snapshot{}, "/api/recommendations?roster_id=10", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(t, newTestMux(tt.src, tt.snap), tt.path).Code)
		})
	}
}

func TestGetRecommendations_PreDraft(t *testing.T) {
	rec := get(t, newTestMux(&fakeSource{}, testProjections()), "/api/recommendations")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsDynamic)
	assert.Len(t, resp.Players, 7)
	assert.Equal(t, 0, resp.Insights.PicksMade)
}

func TestDecodeEnvelope(t *testing.T) {
	ev, err := events.NewEvent("d1", events.TypePickMade, events.PickMadePayload{DraftID: "d1", PlayerID: "p1"}, start)
	require.NoError(t, err)
	data, err := json.Marshal(map[string]any{
		"eventId":   ev.ID.String(),
		"eventType": ev.EventType,
		"draftId":   ev.DraftID,
		"timestamp": ev.CreatedAt,
		"payload":   json.RawMessage(ev.Payload),
	})
	require.NoError(t, err)

	got, err := decodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, EventTypePickMade, got.Type)
	assert.Equal(t, "d1", got.DraftID)

	payload, err := ParseEventPayload(got)
	require.NoError(t, err)
	assert.Equal(t, "p1", payload.(events.PickMadePayload).PlayerID)

	_, err = decodeEnvelope([]byte(`{"eventType":"pick_made"}`))
	assert.Error(t, err)
	_, err = decodeEnvelope([]byte(`{"eventType":"bogus","draftId":"d1"}`))
	assert.Error(t, err)
	_, err = decodeEnvelope([]byte(`not json`))
	assert.Error(t, err)
}

func TestService_BroadcastsToWebSocketClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := liveSource(t)
	cfg := DefaultConfig()
	cfg.Clock = clockwork.NewFakeClockAt(start)
	svc, err := NewService(ctx, cfg, src)
	require.NoError(t, err)
	go svc.connectionManager.Start(ctx)

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/draft"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return svc.Stats().DraftConnections["d1"] == 1
	}, 2*time.Second, 10*time.Millisecond)

	svc.PickMade(src.st.Picks[0])

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev DraftEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventTypePickMade, ev.Type)
	assert.Equal(t, "d1", ev.DraftID)

	payload, err := ParseEventPayload(&ev)
	require.NoError(t, err)
	pick := payload.(events.PickMadePayload)
	assert.Equal(t, "RB1", pick.PlayerID)
	assert.Equal(t, "1.01", pick.Label)

	rec := get(t, mux, "/ws/stats")
	var stats ConnectionStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalConnections)
}

func TestService_CompletionBroadcastOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := liveSource(t)
	cfg := DefaultConfig()
	cfg.Clock = clockwork.NewFakeClockAt(start)
	svc, err := NewService(ctx, cfg, src)
	require.NoError(t, err)

	done := src.st.Clone()
	for n := 2; n <= 4; n++ {
		slot := state.SlotForPick(n, 2, models.DraftTypeSnake)
		require.NoError(t, done.AddPick(models.DraftPick{
			PickNumber: n,
			Round:      state.RoundForPick(n, 2),
			DraftSlot:  slot,
			PlayerID:   fmt.Sprintf("x%d", n),
			Position:   "WR",
			RosterID:   done.Settings.SlotToRoster[slot],
		}))
	}
	require.True(t, done.IsComplete())

	svc.StateChanged(done)
	svc.StateChanged(done)

	var types []EventType
	for len(svc.connectionManager.broadcastCh) > 0 {
		msg := <-svc.connectionManager.broadcastCh
		types = append(types, msg.Event.Type)
	}
	assert.Equal(t, []EventType{
		EventTypeDraftStateChanged,
		EventTypeDraftCompleted,
		EventTypeDraftStateChanged,
	}, types)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(manager.ErrNotInitialized))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("x: %w", vorp.ErrUnknownTeam)))
	assert.Equal(t, http.StatusBadRequest, statusFor(vorp.ErrTeamRequired))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(vorp.ErrInsufficientPlayerPool))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
