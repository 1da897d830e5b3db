package vorp

import (
	"encoding/binary"
	"maps"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/mcdev12/draftpilot/go/internal/models"
)

// DefaultStartingLineup is the number of starters per modelled position.
// The flex slot is counted as a third WR.
var DefaultStartingLineup = map[string]int{
	models.PositionQB: 1,
	models.PositionRB: 2,
	models.PositionWR: 3,
	models.PositionTE: 1,
}

// modelledPositions are the positions that get a replacement level.
var modelledPositions = []string{models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE}

// benchAllowance is the league-wide number of backups expected at position.
func benchAllowance(position string, teams int) int {
	switch position {
	case models.PositionRB, models.PositionWR:
		return teams
	case models.PositionQB, models.PositionTE:
		return teams / 2
	}
	return 0
}

// sortByPoints orders players by projection descending, then id.
func sortByPoints(players []models.Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].ProjectedPoints != players[j].ProjectedPoints {
			return players[i].ProjectedPoints > players[j].ProjectedPoints
		}
		return players[i].ID < players[j].ID
	})
}

func groupByPosition(players []models.Player) map[string][]models.Player {
	out := make(map[string][]models.Player)
	for _, p := range players {
		out[p.Position] = append(out[p.Position], p)
	}
	for pos := range out {
		sortByPoints(out[pos])
	}
	return out
}

// staticLevel returns the points of the player at replacement rank
// starters*teams+1, or the last player when the pool is smaller.
func staticLevel(sorted []models.Player, starters, teams int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := starters * teams
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx].ProjectedPoints
}

// fingerprint identifies a projection snapshot and team count for
// baseline memoization. Input order does not matter.
func fingerprint(players []models.Player, teams int) uint64 {
	ids := make([]int, len(players))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool { return players[ids[a]].ID < players[ids[b]].ID })

	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(teams))
	d.Write(buf[:])
	for _, i := range ids {
		p := players[i]
		d.WriteString(p.ID)
		d.WriteString("\x00")
		d.WriteString(p.Position)
		d.WriteString("\x00")
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.ProjectedPoints))
		d.Write(buf[:])
	}
	return d.Sum64()
}

// staticBaseline computes (or recalls) static levels for the snapshot.
// The returned map is a copy owned by the caller.
func (e *Engine) staticBaseline(players []models.Player, teams int) map[string]float64 {
	key := fingerprint(players, teams)

	e.mu.Lock()
	if levels, ok := e.baselines[key]; ok {
		e.mu.Unlock()
		return maps.Clone(levels)
	}
	e.mu.Unlock()

	byPos := groupByPosition(players)
	levels := make(map[string]float64, len(modelledPositions))
	for _, pos := range modelledPositions {
		levels[pos] = staticLevel(byPos[pos], e.lineup[pos], teams)
	}

	e.mu.Lock()
	if len(e.baselines) >= maxMemoizedBaselines {
		clear(e.baselines)
	}
	e.baselines[key] = levels
	e.mu.Unlock()
	return maps.Clone(levels)
}

const maxMemoizedBaselines = 32
