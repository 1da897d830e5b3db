package vorp

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

const DefaultTeams = 12

// Engine computes static and dynamic VORP rankings. It is safe for
// concurrent use; the only shared state is the static baseline memo.
type Engine struct {
	lineup       map[string]int
	defaultTeams int

	mu        sync.Mutex
	baselines map[uint64]map[string]float64
}

type Option func(*Engine)

// WithStartingLineup overrides starters per position.
func WithStartingLineup(lineup map[string]int) Option {
	return func(e *Engine) {
		e.lineup = make(map[string]int, len(lineup))
		for k, v := range lineup {
			e.lineup[k] = v
		}
	}
}

// WithDefaultTeams sets the league size used when no draft state is given.
func WithDefaultTeams(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultTeams = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		lineup:       DefaultStartingLineup,
		defaultTeams: DefaultTeams,
		baselines:    make(map[uint64]map[string]float64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute ranks every undrafted player for req.
func (e *Engine) Compute(req Request) (*Result, error) {
	valid, excluded := validate(req.Players)
	if len(excluded) > 0 {
		log.Warn().Int("excluded", len(excluded)).Msg("dropped malformed projection rows")
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%d rows supplied, none usable: %w", len(req.Players), ErrInsufficientPlayerPool)
	}

	ids := req.IDs
	if ids == nil {
		ids = identityResolver{}
	}

	teams := e.defaultTeams
	st := req.State
	if st != nil {
		if req.RosterID == 0 {
			return nil, ErrTeamRequired
		}
		if _, ok := st.SlotForRoster(req.RosterID); !ok {
			return nil, fmt.Errorf("roster %d: %w", req.RosterID, ErrUnknownTeam)
		}
		if st.Settings.TotalTeams > 0 {
			teams = st.Settings.TotalTeams
		}
	}

	static := e.staticBaseline(valid, teams)
	res := &Result{
		Excluded:      excluded,
		StaticLevels:  static,
		DynamicLevels: make(map[string]float64, len(modelledPositions)),
		Scarcity:      make(map[string]float64, len(modelledPositions)),
	}

	if st == nil {
		res.Players = e.preDraft(valid, static)
		for _, pos := range modelledPositions {
			res.DynamicLevels[pos] = static[pos]
			res.Scarcity[pos] = 1.0
		}
		finalize(res.Players)
		return res, nil
	}

	drafted := make(map[string]struct{}, len(st.Picks))
	for _, p := range st.Picks {
		drafted[ids.ProjectionID(p.PlayerID)] = struct{}{}
	}
	undrafted := make([]models.Player, 0, len(valid))
	for _, p := range valid {
		if _, taken := drafted[p.ID]; !taken {
			undrafted = append(undrafted, p)
		}
	}
	byPos := groupByPosition(undrafted)

	ctx := buildContext(st, req.RosterID, teams)
	res.Context = &ctx

	for _, pos := range modelledPositions {
		starters := e.lineup[pos]
		draftedAtPos := ctx.DraftedByPosition[pos]
		res.DynamicLevels[pos] = dynamicLevel(byPos[pos], pos, starters, teams, draftedAtPos)
		res.Scarcity[pos] = ScarcityMultiplier(len(byPos[pos]), remainingNeed(pos, starters, teams, draftedAtPos))
	}

	positionRank := make(map[string]int, len(undrafted))
	for _, players := range byPos {
		for i, p := range players {
			positionRank[p.ID] = i + 1
		}
	}

	out := make([]Metrics, 0, len(undrafted))
	for _, p := range undrafted {
		m := baseMetrics(p, static)
		m.PositionRank = positionRank[p.ID]
		if isModelled(p.Position) {
			m.DynamicReplacementLevel = res.DynamicLevels[p.Position]
			m.DynamicVORP = math.Max(0, p.ProjectedPoints-m.DynamicReplacementLevel)
			m.VORPChange = m.DynamicVORP - m.StaticVORP
			m.ReplacementLevelShift = m.DynamicReplacementLevel - m.StaticReplacementLevel
		}
		out = append(out, m)
	}

	assignVORPRanks(out)

	for i := range out {
		m := &out[i]
		if m.NoReplacementLevel {
			continue
		}
		p := models.Player{ID: m.PlayerID, Position: m.Position, ProjectedPoints: m.ProjectedPoints}
		m.ScarcityMultiplier = res.Scarcity[m.Position]
		m.TierDepletionFactor = tierDepletionFactor()
		m.RoundStrategyAdjustment = roundStrategyAdjustment(p, m.PositionRank, ctx)
		m.RosterConstructionMultiplier = RosterConstructionMultiplier(m.Position, m.ProjectedPoints, ctx.RosterCounts[m.Position])
		if adp, ok := req.ADPRanks[m.PlayerID]; ok {
			m.ADPRank = adp
			m.MarketInefficiencyMultiplier = MarketInefficiencyMultiplier(m.Position, adp, m.VORPRank)
		}
		m.FinalScore = m.DynamicVORP *
			m.ScarcityMultiplier *
			m.TierDepletionFactor *
			m.RoundStrategyAdjustment *
			m.RosterConstructionMultiplier *
			m.MarketInefficiencyMultiplier
	}

	res.Players = out
	finalize(res.Players)

	log.Debug().
		Int("players", len(out)).
		Int("picks_made", ctx.PicksMade).
		Int("roster_id", req.RosterID).
		Msg("computed dynamic VORP")
	return res, nil
}

func (e *Engine) preDraft(players []models.Player, static map[string]float64) []Metrics {
	out := make([]Metrics, 0, len(players))
	for _, p := range players {
		m := baseMetrics(p, static)
		if isModelled(p.Position) {
			m.DynamicReplacementLevel = m.StaticReplacementLevel
			m.DynamicVORP = m.StaticVORP
			m.FinalScore = m.StaticVORP
		}
		out = append(out, m)
	}

	byPos := make(map[string][]int)
	for i, m := range out {
		byPos[m.Position] = append(byPos[m.Position], i)
	}
	for _, idxs := range byPos {
		sort.Slice(idxs, func(a, b int) bool {
			ma, mb := out[idxs[a]], out[idxs[b]]
			return better(ma.ProjectedPoints, mb.ProjectedPoints, ma.PlayerID, mb.PlayerID)
		})
		for r, i := range idxs {
			out[i].PositionRank = r + 1
		}
	}
	assignVORPRanks(out)
	return out
}

// baseMetrics fills identity and static fields with neutral multipliers.
func baseMetrics(p models.Player, static map[string]float64) Metrics {
	m := Metrics{
		PlayerID:                     p.ID,
		Name:                         p.Name,
		Position:                     p.Position,
		Team:                         p.Team,
		ProjectedPoints:              p.ProjectedPoints,
		ScarcityMultiplier:           1.0,
		TierDepletionFactor:          1.0,
		RoundStrategyAdjustment:      1.0,
		RosterConstructionMultiplier: 1.0,
		MarketInefficiencyMultiplier: 1.0,
	}
	if !isModelled(p.Position) {
		m.NoReplacementLevel = true
		return m
	}
	m.StaticReplacementLevel = static[p.Position]
	m.StaticVORP = math.Max(0, p.ProjectedPoints-m.StaticReplacementLevel)
	return m
}

func buildContext(st *state.DraftState, rosterID, teams int) DraftContext {
	ctx := DraftContext{
		Round:             st.CurrentRound,
		PicksMade:         len(st.Picks),
		TotalPicks:        st.Settings.TotalPicks(),
		Teams:             teams,
		DraftType:         st.Settings.DraftType,
		TurnGap:           st.TurnGap(rosterID),
		DraftedByPosition: st.DraftedCountByPosition(),
		RosterCounts:      map[string]int{},
	}
	if roster, ok := st.Rosters[rosterID]; ok {
		ctx.RosterCounts = roster.Counts()
	}
	return ctx
}

// assignVORPRanks ranks players by dynamic VORP among the list.
func assignVORPRanks(ms []Metrics) {
	idx := make([]int, len(ms))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ma, mb := ms[idx[a]], ms[idx[b]]
		if ma.DynamicVORP != mb.DynamicVORP {
			return ma.DynamicVORP > mb.DynamicVORP
		}
		return better(ma.ProjectedPoints, mb.ProjectedPoints, ma.PlayerID, mb.PlayerID)
	})
	for r, i := range idx {
		ms[i].VORPRank = r + 1
	}
}

// finalize sorts by final score and fills Rank, StaticRank and RankDelta.
func finalize(ms []Metrics) {
	idx := make([]int, len(ms))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ma, mb := ms[idx[a]], ms[idx[b]]
		if ma.StaticVORP != mb.StaticVORP {
			return ma.StaticVORP > mb.StaticVORP
		}
		return better(ma.ProjectedPoints, mb.ProjectedPoints, ma.PlayerID, mb.PlayerID)
	})
	for r, i := range idx {
		ms[i].StaticRank = r + 1
	}

	sort.Slice(ms, func(a, b int) bool {
		if ms[a].FinalScore != ms[b].FinalScore {
			return ms[a].FinalScore > ms[b].FinalScore
		}
		return better(ms[a].ProjectedPoints, ms[b].ProjectedPoints, ms[a].PlayerID, ms[b].PlayerID)
	})
	for i := range ms {
		ms[i].Rank = i + 1
		ms[i].RankDelta = ms[i].StaticRank - ms[i].Rank
	}
}

// better is the shared tie-break: higher points, then lexicographic id.
func better(ptsA, ptsB float64, idA, idB string) bool {
	if ptsA != ptsB {
		return ptsA > ptsB
	}
	return idA < idB
}

// validate drops rows that cannot be scored and reports why.
func validate(players []models.Player) ([]models.Player, []Exclusion) {
	valid := make([]models.Player, 0, len(players))
	var excluded []Exclusion
	seen := make(map[string]struct{}, len(players))

	for _, p := range players {
		reason := ""
		switch {
		case p.ID == "":
			reason = "missing player id"
		case !models.IsKnownPosition(p.Position):
			reason = fmt.Sprintf("unknown position %q", p.Position)
		case math.IsNaN(p.ProjectedPoints) || math.IsInf(p.ProjectedPoints, 0):
			reason = "projected points not a number"
		case p.ProjectedPoints < 0:
			reason = "negative projected points"
		}
		if reason == "" {
			if _, dup := seen[p.ID]; dup {
				reason = "duplicate player id"
			}
		}
		if reason != "" {
			excluded = append(excluded, Exclusion{PlayerID: p.ID, Name: p.Name, Reason: reason})
			continue
		}
		seen[p.ID] = struct{}{}
		valid = append(valid, p)
	}
	return valid, excluded
}
