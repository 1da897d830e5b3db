package vorp

import (
	"fmt"
	"time"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

// poolSpec describes a synthetic position pool: count players starting at
// top points and dropping step points each.
type poolSpec struct {
	pos   string
	count int
	top   float64
	step  float64
}

var standardPool = []poolSpec{
	{"QB", 40, 400, 5},
	{"RB", 60, 320, 4},
	{"WR", 80, 310, 3},
	{"TE", 30, 240, 5},
	{"K", 15, 150, 2},
	{"DEF", 15, 160, 3},
}

func playerID(pos string, i int) string {
	return fmt.Sprintf("%s%02d", pos, i)
}

func buildPool(specs []poolSpec) []models.Player {
	var out []models.Player
	for _, s := range specs {
		for i := 0; i < s.count; i++ {
			out = append(out, models.Player{
				ID:              playerID(s.pos, i),
				Name:            fmt.Sprintf("%s Player %d", s.pos, i),
				Position:        s.pos,
				Team:            "FA",
				ProjectedPoints: s.top - float64(i)*s.step,
			})
		}
	}
	return out
}

func points(ps poolSpec, i int) float64 {
	return ps.top - float64(i)*ps.step
}

func newState(teams, rounds int) *state.DraftState {
	slotToRoster := make(map[int]int, teams)
	for slot := 1; slot <= teams; slot++ {
		slotToRoster[slot] = slot
	}
	return state.New(models.DraftSettings{
		DraftID:         "d1",
		TotalTeams:      teams,
		TotalRounds:     rounds,
		DraftType:       models.DraftTypeSnake,
		RosterPositions: []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K", "DEF", "BN", "BN", "BN", "BN", "BN", "BN"},
		SlotToRoster:    slotToRoster,
	})
}

// draft applies picks of the given player ids in order.
func draft(st *state.DraftState, players map[string]models.Player, ids ...string) error {
	for _, id := range ids {
		p := players[id]
		n := st.CurrentPick
		slot := st.CurrentDraftSlot
		pick := models.DraftPick{
			PickNumber: n,
			Round:      st.CurrentRound,
			DraftSlot:  slot,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Position:   p.Position,
			RosterID:   st.Settings.SlotToRoster[slot],
			Timestamp:  time.Date(2026, 8, 30, 19, 0, n, 0, time.UTC),
		}
		if err := st.AddPick(pick); err != nil {
			return err
		}
	}
	return nil
}

func index(players []models.Player) map[string]models.Player {
	out := make(map[string]models.Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}
