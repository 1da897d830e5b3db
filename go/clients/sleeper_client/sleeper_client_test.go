package sleeper_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SleeperClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := DefaultOptions()
	opts.BaseURL = srv.URL
	opts.RateLimitPerSec = 0
	return NewSleeperClient(opts)
}

func TestGetDraft(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/draft/123", r.URL.Path)
		w.Write([]byte(`{
			"draft_id": "123",
			"league_id": "456",
			"status": "drafting",
			"type": "snake",
			"settings": {"teams": 10, "rounds": 16, "pick_timer": 90},
			"metadata": {"name": "Home League", "scoring_type": "ppr"},
			"draft_order": {"u1": 1, "u2": 2},
			"slot_to_roster_id": {"1": 4, "2": 7, "x": 9}
		}`))
	})

	d, err := c.GetDraft(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "456", d.LeagueID)
	assert.Equal(t, 10, d.Settings.Teams)
	assert.Equal(t, 90, d.Settings.PickTimer)
	assert.Equal(t, "ppr", d.Metadata["scoring_type"])
	assert.Equal(t, map[int]int{1: 4, 2: 7}, d.SlotToRoster())
}

func TestGetDraft_NullBodyIsInvalidReference(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})

	_, err := c.GetDraft(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidDraftReference)
}

func TestGetDraftPicks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/draft/123/picks", r.URL.Path)
		w.Write([]byte(`[
			{"pick_no": 1, "round": 1, "draft_slot": 1, "player_id": "4034", "roster_id": 4, "picked_by": "u1",
			 "metadata": {"first_name": "Christian", "last_name": "McCaffrey", "position": "RB", "team": "SF"}},
			{"pick_no": 2, "round": 1, "draft_slot": 2, "player_id": "6794", "roster_id": null, "picked_by": "",
			 "metadata": {"first_name": "Justin", "last_name": "Jefferson", "position": "WR", "team": "MIN"}}
		]`))
	})

	picks, err := c.GetDraftPicks(context.Background(), "123")
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "Christian McCaffrey", picks[0].PlayerName())
	assert.Equal(t, 4, picks[0].RosterID.Int())
	assert.Equal(t, 0, picks[1].RosterID.Int())
}

func TestGetDraftPicks_EmptyDraft(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	picks, err := c.GetDraftPicks(context.Background(), "123")
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"not found", http.StatusNotFound, ErrInvalidDraftReference},
		{"server error", http.StatusBadGateway, ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "3")
				w.WriteHeader(tt.status)
			})

			_, err := c.GetDraftPicks(context.Background(), "123")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 3*time.Second, RetryAfter(err))
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewSleeperClient(Options{BaseURL: url, Timeout: time.Second})
	_, err := c.GetDraft(context.Background(), "123")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestMalformedJSONIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"draft_id": `))
	})

	_, err := c.GetDraft(context.Background(), "123")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestLeagueEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/league/456":
			w.Write([]byte(`{"league_id": "456", "name": "Home League", "total_rosters": 10,
				"roster_positions": ["QB","RB","BN"], "scoring_settings": {"rec": 0.5}}`))
		case "/league/456/users":
			w.Write([]byte(`[{"user_id": "u1", "display_name": "alice", "metadata": {"team_name": "Gridiron"}},
				{"user_id": "u2", "display_name": "bob"}]`))
		case "/league/456/rosters":
			w.Write([]byte(`[{"roster_id": 4, "owner_id": "u1"}, {"roster_id": 7, "owner_id": "u2"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	league, err := c.GetLeague(ctx, "456")
	require.NoError(t, err)
	assert.Equal(t, "half_ppr", league.ScoringType())
	assert.Equal(t, []string{"QB", "RB", "BN"}, league.RosterPositions)

	users, err := c.GetLeagueUsers(ctx, "456")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Gridiron", users[0].TeamName())
	assert.Equal(t, "bob", users[1].TeamName())

	rosters, err := c.GetLeagueRosters(ctx, "456")
	require.NoError(t, err)
	assert.Equal(t, "u2", rosters[1].OwnerID)
}

func TestGetPlayers_BackfillsIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/nfl", r.URL.Path)
		w.Write([]byte(`{"4034": {"first_name": "Christian", "last_name": "McCaffrey", "position": "RB"},
			"SF": {"player_id": "SF", "position": "DEF", "team": "SF"}}`))
	})

	players, err := c.GetPlayers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "4034", players["4034"].PlayerID)
	assert.Equal(t, "Christian McCaffrey", players["4034"].Name())
	assert.Equal(t, "SF", players["SF"].Name())
}
