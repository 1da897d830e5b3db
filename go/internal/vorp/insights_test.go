package vorp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsights(t *testing.T) {
	pool := buildPool(standardPool)
	st := newState(12, 15)
	require.NoError(t, draft(st, index(pool), "WR00", "RB00", "RB01", "RB02", "RB03", "RB04"))

	adp := map[string]float64{"WR20": 120}
	res, err := NewEngine().Compute(Request{Players: pool, State: st, RosterID: 1, ADPRanks: adp})
	require.NoError(t, err)

	in := BuildInsights(res, st, 1)
	assert.Equal(t, 6, in.PicksMade)
	assert.InDelta(t, 6.0/180.0*100, in.CompletionPct, 1e-9)

	run, ok := in.PositionRuns["RB"]
	require.True(t, ok)
	assert.Equal(t, 5, run.Count)
	assert.Equal(t, "High", run.Severity)

	assert.Len(t, in.BiggestRisers, 5)
	assert.Equal(t, res.DynamicLevels["RB"]-res.StaticLevels["RB"], in.ReplacementShifts["RB"])

	assert.Equal(t, "Critical", in.RosterNeeds["WR"])
	assert.Equal(t, "Critical", in.RosterNeeds["QB"])

	require.Len(t, in.Contrarian, 1)
	assert.Equal(t, "WR20", in.Contrarian[0].PlayerID)
	assert.Equal(t, "High", in.Contrarian[0].Confidence)
}

func TestBuildInsights_PreDraft(t *testing.T) {
	res, err := NewEngine().Compute(Request{Players: buildPool(standardPool)})
	require.NoError(t, err)

	in := BuildInsights(res, nil, 0)
	assert.Zero(t, in.PicksMade)
	assert.Nil(t, in.PositionRuns)
	for _, pos := range []string{"QB", "RB", "WR", "TE"} {
		assert.Zero(t, in.ReplacementShifts[pos])
		assert.Equal(t, "Low", in.ScarcityLevels[pos])
	}
}

func TestNeedLevels(t *testing.T) {
	levels := NeedLevels(map[string]int{"QB": 1, "RB": 5, "TE": 0, "WR": 3})
	assert.Equal(t, "Satisfied", levels["QB"])
	assert.Equal(t, "Oversupplied", levels["RB"])
	assert.Equal(t, "Critical", levels["TE"])
	assert.Equal(t, "Moderate", levels["WR"])
	assert.Equal(t, "Critical", levels["K"])
}
