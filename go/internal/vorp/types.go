package vorp

import (
	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

// IDResolver maps provider player ids (as recorded on picks) to
// projection ids. reconcile.Mapping satisfies it.
type IDResolver interface {
	ProjectionID(providerID string) string
}

type identityResolver struct{}

func (identityResolver) ProjectionID(id string) string { return id }

// Request is one recommendation computation.
type Request struct {
	Players []models.Player
	// ADPRanks is keyed by projection id. Players without an entry get a
	// neutral market multiplier.
	ADPRanks map[string]float64
	// State is a snapshot of the live draft. Nil means pre-draft: static
	// values only, every multiplier 1.0.
	State *state.DraftState
	// RosterID is the team the list is for. Required when State is set.
	RosterID int
	IDs      IDResolver
}

// Metrics is the per-player breakdown. It is request-scoped and never
// persisted.
type Metrics struct {
	PlayerID        string  `json:"player_id"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	ProjectedPoints float64 `json:"projected_points"`

	StaticReplacementLevel  float64 `json:"static_replacement_level"`
	StaticVORP              float64 `json:"static_vorp"`
	DynamicReplacementLevel float64 `json:"dynamic_replacement_level"`
	DynamicVORP             float64 `json:"dynamic_vorp"`
	VORPChange              float64 `json:"vorp_change"`
	ReplacementLevelShift   float64 `json:"replacement_level_shift"`

	ScarcityMultiplier           float64 `json:"scarcity_multiplier"`
	TierDepletionFactor          float64 `json:"tier_depletion_factor"`
	RoundStrategyAdjustment      float64 `json:"round_strategy_adjustment"`
	RosterConstructionMultiplier float64 `json:"roster_construction_multiplier"`
	MarketInefficiencyMultiplier float64 `json:"market_inefficiency_multiplier"`
	FinalScore                   float64 `json:"final_score"`

	PositionRank int     `json:"position_rank"`
	VORPRank     int     `json:"vorp_rank"`
	ADPRank      float64 `json:"adp_rank,omitempty"`
	StaticRank   int     `json:"static_rank"`
	Rank         int     `json:"rank"`
	RankDelta    int     `json:"rank_delta"`

	NoReplacementLevel bool `json:"no_replacement_level,omitempty"`
}

// Exclusion records an input row that was dropped during validation.
type Exclusion struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// DraftContext is the draft-wide information the adjustments read.
type DraftContext struct {
	Round             int              `json:"round"`
	PicksMade         int              `json:"picks_made"`
	TotalPicks        int              `json:"total_picks"`
	Teams             int              `json:"teams"`
	DraftType         models.DraftType `json:"draft_type"`
	TurnGap           int              `json:"turn_gap"`
	DraftedByPosition map[string]int   `json:"drafted_by_position"`
	RosterCounts      map[string]int   `json:"roster_counts"`
}

// Progress is the completed fraction of the draft.
func (c DraftContext) Progress() float64 {
	if c.TotalPicks <= 0 {
		return 0
	}
	return float64(c.PicksMade) / float64(c.TotalPicks)
}

// Result is the ranked recommendation list plus per-position levels.
type Result struct {
	Players       []Metrics          `json:"players"`
	Excluded      []Exclusion        `json:"excluded,omitempty"`
	StaticLevels  map[string]float64 `json:"static_levels"`
	DynamicLevels map[string]float64 `json:"dynamic_levels"`
	Scarcity      map[string]float64 `json:"scarcity"`
	Context       *DraftContext      `json:"context,omitempty"`
}

// Top returns the first n players.
func (r *Result) Top(n int) []Metrics {
	if n <= 0 || n > len(r.Players) {
		n = len(r.Players)
	}
	return r.Players[:n]
}

// ByPosition returns ranked players at position.
func (r *Result) ByPosition(position string) []Metrics {
	var out []Metrics
	for _, m := range r.Players {
		if m.Position == position {
			out = append(out, m)
		}
	}
	return out
}
