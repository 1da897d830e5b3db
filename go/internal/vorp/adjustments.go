package vorp

import "github.com/mcdev12/draftpilot/go/internal/models"

// roundStrategyAdjustment combines the round band, league draft pace and
// the positional value curve.
func roundStrategyAdjustment(p models.Player, positionRank int, ctx DraftContext) float64 {
	return roundBand(p, ctx) * draftTiming(p.Position, ctx) * valueCurve(p.Position, positionRank, ctx.Round)
}

func roundBand(p models.Player, ctx DraftContext) float64 {
	adj := 1.0
	pos, pts, round := p.Position, p.ProjectedPoints, ctx.Round

	switch {
	case round <= 3:
		if pos == models.PositionRB || pos == models.PositionWR {
			adj *= 1.1
		} else if (pos == models.PositionQB || pos == models.PositionTE) && round <= 2 {
			adj *= 0.95
		}
	case round <= 8:
		if pos == models.PositionTE && pts >= 220 {
			adj *= 1.15
		} else if pos == models.PositionQB && pts >= 350 {
			adj *= 1.1
		}
	default:
		if pos == models.PositionRB || pos == models.PositionWR {
			adj *= 1.05
		}
		adj *= 0.98
	}

	if ctx.DraftType == models.DraftTypeSnake && ctx.TurnGap > 0 {
		switch {
		case float64(ctx.TurnGap) >= 1.5*float64(ctx.Teams):
			if pos == models.PositionRB || pos == models.PositionTE {
				adj *= 1.1
			}
			if pts >= 300 {
				adj *= 1.05
			}
		case ctx.TurnGap <= 6:
			if pos == models.PositionQB && round <= 10 {
				adj *= 0.95
			}
		}
	}
	return adj
}

// expectedShare is the fraction of all picks a position normally takes.
var expectedShare = map[string]float64{
	models.PositionQB: 0.08,
	models.PositionRB: 0.35,
	models.PositionWR: 0.35,
	models.PositionTE: 0.08,
}

func draftTiming(position string, ctx DraftContext) float64 {
	adj := 1.0
	actual := ctx.DraftedByPosition[position]
	expected := int(float64(ctx.PicksMade) * expectedShare[position])

	switch {
	case expected > 0 && actual < expected:
		adj *= 1.0 + float64(expected-actual)/float64(expected)*0.1
	case expected > 0 && actual > expected:
		adj *= 1.0 - float64(actual-expected)/float64(expected)*0.05
	}

	if ctx.Progress() > 0.6 && (position == models.PositionQB || position == models.PositionTE) && actual == 0 {
		adj *= 1.2
	}
	return adj
}

type curveBand struct {
	maxRank int
	mult    float64
}

var valueCurves = map[string]struct {
	bands []curveBand
	rest  float64
}{
	models.PositionRB: {[]curveBand{{6, 1.15}, {15, 1.05}, {24, 1.0}}, 0.9},
	models.PositionWR: {[]curveBand{{8, 1.1}, {20, 1.02}, {36, 1.0}}, 0.95},
	models.PositionQB: {[]curveBand{{3, 1.1}, {8, 1.0}, {16, 0.9}}, 0.8},
	models.PositionTE: {[]curveBand{{2, 1.3}, {5, 1.1}, {12, 0.95}}, 0.85},
}

func valueCurve(position string, positionRank, round int) float64 {
	adj := 1.0
	if curve, ok := valueCurves[position]; ok {
		adj = curve.rest
		for _, b := range curve.bands {
			if positionRank <= b.maxRank {
				adj = b.mult
				break
			}
		}
	}

	switch {
	case round <= 3:
		if positionRank <= 5 {
			adj *= 1.05
		}
	case round >= 10:
		adj = 1.0 + (adj-1.0)*0.7
	}
	return adj
}

// RosterTarget is the desired count range for one position on a roster.
type RosterTarget struct {
	Min, Max, Optimal int
	EliteThreshold    float64
}

var rosterTargets = map[string]RosterTarget{
	models.PositionQB:  {Min: 1, Max: 2, Optimal: 1, EliteThreshold: 350},
	models.PositionRB:  {Min: 2, Max: 6, Optimal: 4, EliteThreshold: 280},
	models.PositionWR:  {Min: 2, Max: 6, Optimal: 5, EliteThreshold: 270},
	models.PositionTE:  {Min: 1, Max: 3, Optimal: 2, EliteThreshold: 220},
	models.PositionK:   {Min: 1, Max: 2, Optimal: 1, EliteThreshold: 140},
	models.PositionDEF: {Min: 1, Max: 2, Optimal: 1, EliteThreshold: 160},
}

var defaultRosterTarget = RosterTarget{Min: 0, Max: 3, Optimal: 2, EliteThreshold: 250}

func targetFor(position string) RosterTarget {
	if t, ok := rosterTargets[position]; ok {
		return t
	}
	return defaultRosterTarget
}

// RosterConstructionMultiplier rewards filling holes and discourages
// stacking a position. Elite players soften, but never reverse, the
// oversupply penalty.
func RosterConstructionMultiplier(position string, points float64, count int) float64 {
	t := targetFor(position)
	mult := 1.0
	switch {
	case count < t.Min:
		mult *= 1.25
	case count < t.Optimal:
		mult *= 1.1
	case count >= t.Max:
		mult *= 0.8
	case count > t.Optimal:
		mult *= 0.95
	}

	if points > t.EliteThreshold && count > t.Optimal {
		mult = min(mult*1.15, 1.0)
	}
	return mult
}

// MarketInefficiencyMultiplier compares a player's ADP rank with their
// dynamic VORP rank. A positive gap means the market is undervaluing the player.
// Missing ranks (zero) are neutral.
func MarketInefficiencyMultiplier(position string, adpRank float64, vorpRank int) float64 {
	if adpRank <= 0 || vorpRank <= 0 {
		return 1.0
	}
	diff := adpRank - float64(vorpRank)

	mult := 1.0
	switch {
	case diff > 50:
		mult = 1.3
	case diff > 25:
		mult = 1.15
	case diff > 10:
		mult = 1.05
	case diff < -50:
		mult = 0.7
	case diff < -25:
		mult = 0.85
	case diff < -10:
		mult = 0.95
	}

	switch {
	case (position == models.PositionRB || position == models.PositionWR) && diff > 20:
		mult *= 1.1
	case position == models.PositionTE && diff > 15:
		mult *= 1.15
	case position == models.PositionQB && diff < -20:
		mult *= 0.9
	}
	return mult
}

// tierDepletionFactor is neutral until tier assignments exist.
// TODO: derive from tier breaks once projections carry tier labels.
func tierDepletionFactor() float64 {
	return 1.0
}
