package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/draftpilot/go/internal/config"
	"github.com/mcdev12/draftpilot/go/internal/draft/manager"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"watch", "recommend", "replay"})
}

func TestSetupLogger(t *testing.T) {
	require.NoError(t, setupLogger(config.LogConfig{Level: "debug"}))
	require.NoError(t, setupLogger(config.LogConfig{Level: "warn", JSON: true}))
	assert.Error(t, setupLogger(config.LogConfig{Level: "loud"}))
}

func TestResolveDraftID(t *testing.T) {
	ctx := context.Background()
	id, err := resolveDraftID(ctx, &Services{}, "123", "")
	require.NoError(t, err)
	assert.Equal(t, "123", id)

	_, err = resolveDraftID(ctx, &Services{}, "", "")
	assert.ErrorContains(t, err, "--league")
}

func TestSetupServices_RequiresProjectionsWhenAsked(t *testing.T) {
	_, err := setupServices(context.Background(), config.Default(), serviceNeeds{projections: true})
	assert.ErrorContains(t, err, "projections.path")

	_, err = setupServices(context.Background(), config.Default(), serviceNeeds{archive: true})
	assert.ErrorContains(t, err, "database.host")
}

func TestRenderRecommendations(t *testing.T) {
	var buf bytes.Buffer
	renderRecommendations(&buf, "Pre-draft values", []vorp.Metrics{
		{Rank: 1, Name: "Bijan Robinson", Position: "RB", Team: "ATL", ProjectedPoints: 310, FinalScore: 80, RankDelta: 2},
		{Rank: 2, Name: "Ja'Marr Chase", Position: "WR", Team: "CIN", ProjectedPoints: 320, FinalScore: 75, RankDelta: -1},
	})
	out := buf.String()
	assert.Contains(t, out, "Pre-draft values")
	assert.Contains(t, out, "Bijan Robinson")
	assert.Contains(t, out, "+2")
	assert.Contains(t, out, "-1")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, manager.Summary{
		DraftInfo: manager.DraftInfo{LeagueName: "Dynasty Bros", CurrentPick: 4, CurrentRound: 1},
		Teams: []manager.TeamNeeds{{
			RosterID:    1,
			OwnerName:   "alex",
			TotalPicks:  1,
			Counts:      map[string]int{"RB": 1},
			RecentPicks: []manager.PickSummary{{PlayerName: "Bijan Robinson"}},
		}},
	})
	assert.Contains(t, buf.String(), "Dynasty Bros")
	assert.Contains(t, buf.String(), "0/1/0/0")
}

func TestHealthCheck(t *testing.T) {
	mux := http.NewServeMux()
	setupHealthCheck(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
