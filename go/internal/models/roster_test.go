package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var standardSlots = []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K", "DEF", "BN", "BN", "BN", "BN", "BN", "BN"}

func TestTeamRoster_CalculateNeeds(t *testing.T) {
	tests := []struct {
		name  string
		picks [][2]string
		want  PositionNeeds
	}{
		{
			name: "empty roster",
			want: PositionNeeds{QB: 1, RB: 2, WR: 2, TE: 1, K: 1, DEF: 1, Flex: 1, Bench: 6},
		},
		{
			name: "surplus RB fills flex",
			picks: [][2]string{
				{"r1", "RB"}, {"r2", "RB"}, {"r3", "RB"},
				{"w1", "WR"}, {"w2", "WR"}, {"t1", "TE"},
			},
			want: PositionNeeds{QB: 1, K: 1, DEF: 1, Flex: 0, Bench: 6},
		},
		{
			name: "overfilled position never goes negative",
			picks: [][2]string{
				{"q1", "QB"}, {"q2", "QB"}, {"q3", "QB"},
				{"t1", "TE"}, {"t2", "TE"}, {"t3", "TE"}, {"t4", "TE"},
			},
			want: PositionNeeds{RB: 2, WR: 2, K: 1, DEF: 1, Flex: 1, Bench: 6},
		},
		{
			name:  "unknown position lands on bench",
			picks: [][2]string{{"x1", "LB"}},
			want:  PositionNeeds{QB: 1, RB: 2, WR: 2, TE: 1, K: 1, DEF: 1, Flex: 1, Bench: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTeamRoster(1)
			for _, p := range tt.picks {
				r.AddPlayer(p[0], p[1])
			}
			r.CalculateNeeds(standardSlots)
			assert.Equal(t, tt.want, r.Needs)
		})
	}
}

func TestTeamRoster_NeedsNeverNegative(t *testing.T) {
	r := NewTeamRoster(1)
	for i := 0; i < 30; i++ {
		r.AddPlayer("p", Positions[i%len(Positions)])
		r.CalculateNeeds(standardSlots)
		for slot, n := range r.Needs.AsMap() {
			assert.GreaterOrEqual(t, n, 0, "slot %s", slot)
		}
	}
}

func TestTeamRoster_CloneIsIndependent(t *testing.T) {
	r := NewTeamRoster(4)
	r.AddPlayer("a", "WR")
	c := r.Clone()
	c.AddPlayer("b", "WR")

	assert.Len(t, r.WR, 1)
	assert.Len(t, c.WR, 2)
}

func TestDraftPick_Label(t *testing.T) {
	p := DraftPick{PickNumber: 31, Round: 3}
	assert.Equal(t, "3.07", p.Label(12))
	assert.Equal(t, 7, p.PickInRound(12))
}
