package vorp

import "github.com/mcdev12/draftpilot/go/internal/models"

// remainingNeed is how many more players at a position the league is
// expected to draft: starters plus bench allowance minus those taken.
func remainingNeed(position string, starters, teams, drafted int) int {
	return max(0, starters*teams+benchAllowance(position, teams)-drafted)
}

// dynamicLevel computes the replacement level from undrafted players
// (sorted best first). While the remaining need can be covered, the cutoff
// sits at the next starter still to be drafted, so it matches the static
// level before any player at the position is taken. Otherwise the median
// of what is left is used.
func dynamicLevel(undrafted []models.Player, position string, starters, teams, drafted int) float64 {
	if len(undrafted) == 0 {
		return 0
	}
	need := remainingNeed(position, starters, teams, drafted)
	if need > 0 && len(undrafted) >= need {
		idx := max(0, starters*teams-drafted)
		if idx >= len(undrafted) {
			idx = len(undrafted) - 1
		}
		return undrafted[idx].ProjectedPoints
	}
	return median(undrafted)
}

func median(sorted []models.Player) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2].ProjectedPoints
	}
	return (sorted[n/2-1].ProjectedPoints + sorted[n/2].ProjectedPoints) / 2
}

// ScarcityMultiplier maps the supply of undrafted players against the
// remaining need onto a multiplier. Lower supply never yields a lower
// multiplier.
func ScarcityMultiplier(undrafted, need int) float64 {
	if undrafted == 0 {
		return 1.5
	}
	if need <= 0 {
		return 0.8
	}
	ratio := float64(undrafted) / float64(need)
	switch {
	case ratio >= 2.0:
		return 0.9
	case ratio >= 1.5:
		return 1.0
	case ratio >= 1.0:
		return 1.1
	case ratio >= 0.5:
		return 1.3
	default:
		return 1.5
	}
}

func isModelled(position string) bool {
	switch position {
	case models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE:
		return true
	}
	return false
}
