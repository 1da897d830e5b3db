package models

import "fmt"

// Fantasy positions tracked on a roster.
const (
	PositionQB  = "QB"
	PositionRB  = "RB"
	PositionWR  = "WR"
	PositionTE  = "TE"
	PositionK   = "K"
	PositionDEF = "DEF"
)

// Positions lists every position a roster tracks, in display order.
var Positions = []string{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF}

// IsKnownPosition reports whether pos is one of Positions.
func IsKnownPosition(pos string) bool {
	for _, p := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// Player is one row of the projection snapshot handed over by the
// projections pipeline.
type Player struct {
	ID              string  `json:"player_id"`
	Name            string  `json:"player_name"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	ProjectedPoints float64 `json:"projected_points"`
}

func formatPickLabel(round, pickInRound int) string {
	return fmt.Sprintf("%d.%02d", round, pickInRound)
}
