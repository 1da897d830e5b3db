package vorp

import (
	"sort"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

// Insights summarises how the board has moved since the draft started.
type Insights struct {
	PicksMade         int                     `json:"picks_made"`
	CurrentRound      int                     `json:"current_round"`
	CompletionPct     float64                 `json:"completion_pct"`
	ReplacementShifts map[string]float64      `json:"replacement_shifts"`
	ScarcityLevels    map[string]string       `json:"scarcity_levels"`
	BiggestRisers     []Metrics               `json:"biggest_risers"`
	PositionRuns      map[string]PositionRun  `json:"position_runs,omitempty"`
	RosterNeeds       map[string]string       `json:"roster_needs,omitempty"`
	Contrarian        []ContrarianOpportunity `json:"contrarian,omitempty"`
}

// PositionRun is a position taken repeatedly in the most recent picks.
type PositionRun struct {
	Count    int    `json:"count"`
	Severity string `json:"severity"`
}

// ContrarianOpportunity is a valuable player the market is drafting late.
type ContrarianOpportunity struct {
	PlayerID   string  `json:"player_id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	ADPRank    float64 `json:"adp_rank"`
	VORPRank   int     `json:"vorp_rank"`
	RankDiff   float64 `json:"rank_diff"`
	Confidence string  `json:"confidence"`
}

const (
	runWindow       = 5
	runThreshold    = 3
	maxRisers       = 5
	maxContrarian   = 5
	contrarianGap   = 25
	contrarianRange = 100
)

// BuildInsights derives draft insights from a computed result. st may be
// nil for a pre-draft result.
func BuildInsights(res *Result, st *state.DraftState, rosterID int) Insights {
	in := Insights{
		ReplacementShifts: make(map[string]float64, len(modelledPositions)),
		ScarcityLevels:    make(map[string]string, len(modelledPositions)),
	}

	for _, pos := range modelledPositions {
		in.ReplacementShifts[pos] = res.DynamicLevels[pos] - res.StaticLevels[pos]
		in.ScarcityLevels[pos] = scarcityLabel(res.Scarcity[pos])
	}

	risers := make([]Metrics, 0, len(res.Players))
	for _, m := range res.Players {
		if !m.NoReplacementLevel {
			risers = append(risers, m)
		}
	}
	sort.SliceStable(risers, func(i, j int) bool { return risers[i].VORPChange > risers[j].VORPChange })
	if len(risers) > maxRisers {
		risers = risers[:maxRisers]
	}
	in.BiggestRisers = risers

	in.Contrarian = contrarian(res.Players)

	if st == nil {
		return in
	}

	in.PicksMade = len(st.Picks)
	in.CurrentRound = st.CurrentRound
	if total := st.Settings.TotalPicks(); total > 0 {
		in.CompletionPct = float64(len(st.Picks)) / float64(total) * 100
	}
	in.PositionRuns = positionRuns(st.RecentPicks(runWindow))
	if roster, ok := st.Rosters[rosterID]; ok {
		in.RosterNeeds = NeedLevels(roster.Counts())
	}
	return in
}

func scarcityLabel(mult float64) string {
	switch {
	case mult > 1.2:
		return "High"
	case mult > 1.0:
		return "Medium"
	default:
		return "Low"
	}
}

func positionRuns(recent []models.DraftPick) map[string]PositionRun {
	if len(recent) < runThreshold {
		return nil
	}
	counts := make(map[string]int)
	for _, p := range recent {
		counts[p.Position]++
	}
	runs := make(map[string]PositionRun)
	for pos, n := range counts {
		if n < runThreshold {
			continue
		}
		sev := "Medium"
		if n >= 4 {
			sev = "High"
		}
		runs[pos] = PositionRun{Count: n, Severity: sev}
	}
	return runs
}

// NeedLevels labels each position Critical, Moderate, Satisfied or
// Oversupplied against the roster targets.
func NeedLevels(counts map[string]int) map[string]string {
	out := make(map[string]string, len(models.Positions))
	for _, pos := range models.Positions {
		t := targetFor(pos)
		n := counts[pos]
		switch {
		case n < t.Min:
			out[pos] = "Critical"
		case n < t.Optimal:
			out[pos] = "Moderate"
		case n == t.Optimal:
			out[pos] = "Satisfied"
		default:
			out[pos] = "Oversupplied"
		}
	}
	return out
}

func contrarian(players []Metrics) []ContrarianOpportunity {
	var out []ContrarianOpportunity
	for _, m := range players {
		if m.ADPRank <= 0 || m.VORPRank > contrarianRange {
			continue
		}
		diff := m.ADPRank - float64(m.VORPRank)
		if diff <= contrarianGap {
			continue
		}
		conf := "Medium"
		if diff > 50 {
			conf = "High"
		}
		out = append(out, ContrarianOpportunity{
			PlayerID:   m.PlayerID,
			Name:       m.Name,
			Position:   m.Position,
			ADPRank:    m.ADPRank,
			VORPRank:   m.VORPRank,
			RankDiff:   diff,
			Confidence: conf,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RankDiff > out[j].RankDiff })
	if len(out) > maxContrarian {
		out = out[:maxContrarian]
	}
	return out
}
