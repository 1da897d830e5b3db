package vorp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcdev12/draftpilot/go/internal/models"
)

func TestScarcityMultiplier_Bands(t *testing.T) {
	tests := []struct {
		undrafted, need int
		want            float64
	}{
		{0, 10, 1.5},
		{10, 0, 0.8},
		{40, 20, 0.9},
		{30, 20, 1.0},
		{20, 20, 1.1},
		{10, 20, 1.3},
		{9, 20, 1.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScarcityMultiplier(tt.undrafted, tt.need), "undrafted=%d need=%d", tt.undrafted, tt.need)
	}
}

func TestScarcityMultiplier_MonotoneInSupply(t *testing.T) {
	for need := 1; need <= 60; need++ {
		prev := ScarcityMultiplier(0, need)
		for undrafted := 1; undrafted <= 150; undrafted++ {
			cur := ScarcityMultiplier(undrafted, need)
			assert.LessOrEqual(t, cur, prev, "need=%d undrafted=%d", need, undrafted)
			prev = cur
		}
	}
}

func TestMarketInefficiencyMultiplier_Scenarios(t *testing.T) {
	for _, pos := range []string{"QB", "RB", "WR", "TE"} {
		assert.GreaterOrEqual(t, MarketInefficiencyMultiplier(pos, 150, 40), 1.15, pos)
		assert.LessOrEqual(t, MarketInefficiencyMultiplier(pos, 5, 80), 0.85, pos)
	}
}

func TestMarketInefficiencyMultiplier_Bands(t *testing.T) {
	tests := []struct {
		name     string
		pos      string
		adp      float64
		vorpRank int
		want     float64
	}{
		{"fair value", "WR", 30, 28, 1.0},
		{"slightly undervalued", "QB", 40, 25, 1.05},
		{"moderately undervalued RB premium", "RB", 60, 30, 1.15 * 1.1},
		{"TE premium", "TE", 37, 20, 1.05 * 1.15},
		{"QB overvalued penalty", "QB", 10, 40, 0.85 * 0.9},
		{"severely overvalued", "WR", 5, 80, 0.7},
		{"slightly overvalued", "RB", 20, 35, 0.95},
		{"missing ADP", "RB", 0, 3, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MarketInefficiencyMultiplier(tt.pos, tt.adp, tt.vorpRank), 1e-9)
		})
	}
}

func TestRosterConstructionMultiplier(t *testing.T) {
	tests := []struct {
		name   string
		pos    string
		points float64
		count  int
		want   float64
	}{
		{"critical need", "RB", 200, 0, 1.25},
		{"moderate need", "RB", 200, 3, 1.1},
		{"at optimal", "RB", 200, 4, 1.0},
		{"slightly over", "RB", 200, 5, 0.95},
		{"at max", "RB", 200, 6, 0.8},
		{"elite softens but caps at neutral", "RB", 300, 5, 1.0},
		{"elite at max", "RB", 300, 6, 0.8 * 1.15},
		{"elite below optimal unaffected", "QB", 400, 0, 1.25},
		{"unknown position uses default", "LS", 100, 3, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RosterConstructionMultiplier(tt.pos, tt.points, tt.count), 1e-9)
		})
	}
}

func TestValueCurve(t *testing.T) {
	assert.InDelta(t, 1.3, valueCurve("TE", 1, 5), 1e-9)
	assert.InDelta(t, 1.15*1.05, valueCurve("RB", 3, 2), 1e-9)
	assert.InDelta(t, 1.02, valueCurve("WR", 12, 6), 1e-9)
	assert.InDelta(t, 1+(0.8-1)*0.7, valueCurve("QB", 20, 12), 1e-9)
	assert.InDelta(t, 1.0, valueCurve("K", 1, 6), 1e-9)
}

func TestRoundBand(t *testing.T) {
	snake := func(round, gap int) DraftContext {
		return DraftContext{Round: round, Teams: 12, DraftType: models.DraftTypeSnake, TurnGap: gap}
	}
	rb := models.Player{Position: "RB", ProjectedPoints: 310}
	qb := models.Player{Position: "QB", ProjectedPoints: 360}
	te := models.Player{Position: "TE", ProjectedPoints: 230}

	assert.InDelta(t, 1.1*1.1*1.05, roundBand(rb, snake(1, 22)), 1e-9)
	assert.InDelta(t, 0.95*0.95, roundBand(qb, snake(2, 2)), 1e-9)
	assert.InDelta(t, 1.1, roundBand(qb, snake(5, 10)), 1e-9)
	assert.InDelta(t, 1.15*1.1, roundBand(te, snake(6, 20)), 1e-9)
	assert.InDelta(t, 1.05*0.98, roundBand(rb, DraftContext{Round: 11, DraftType: models.DraftTypeLinear, TurnGap: 12}), 1e-9)
}

func TestDraftTiming(t *testing.T) {
	ctx := DraftContext{PicksMade: 50, TotalPicks: 180, DraftedByPosition: map[string]int{"RB": 10, "WR": 25}}
	assert.InDelta(t, 1+7.0/17.0*0.1, draftTiming("RB", ctx), 1e-9)
	assert.InDelta(t, 1-8.0/17.0*0.05, draftTiming("WR", ctx), 1e-9)

	late := DraftContext{PicksMade: 120, TotalPicks: 180, DraftedByPosition: map[string]int{}}
	assert.InDelta(t, 1.1*1.2, draftTiming("QB", late), 1e-9)
	assert.InDelta(t, 1.0, draftTiming("K", late), 1e-9)
}

func TestDynamicLevel(t *testing.T) {
	pool := buildPool([]poolSpec{{"RB", 10, 300, 10}})

	// Need covered: cutoff at the next starter.
	assert.Equal(t, 280.0, dynamicLevel(pool, "RB", 1, 2, 0))
	// Need exceeds supply: median of what is left.
	assert.Equal(t, 255.0, dynamicLevel(pool, "RB", 2, 6, 0))
	// Need exhausted: median again.
	assert.Equal(t, 255.0, dynamicLevel(pool, "RB", 1, 2, 10))
	assert.Equal(t, 0.0, dynamicLevel(nil, "RB", 1, 2, 0))
}
