package models

// Slot labels used in a league's roster_positions.
const (
	SlotFlex      = "FLEX"
	SlotWRRBFlex  = "WRRB_FLEX"
	SlotRecFlex   = "REC_FLEX"
	SlotBench     = "BN"
	SlotSuperFlex = "SUPER_FLEX"
)

// PositionNeeds holds the remaining open slots per position. Values are
// never negative.
type PositionNeeds struct {
	QB    int `json:"qb"`
	RB    int `json:"rb"`
	WR    int `json:"wr"`
	TE    int `json:"te"`
	K     int `json:"k"`
	DEF   int `json:"def"`
	Flex  int `json:"flex"`
	Bench int `json:"bench"`
}

// AsMap returns the needs keyed by position label (FLEX and BENCH included).
func (n PositionNeeds) AsMap() map[string]int {
	return map[string]int{
		PositionQB:  n.QB,
		PositionRB:  n.RB,
		PositionWR:  n.WR,
		PositionTE:  n.TE,
		PositionK:   n.K,
		PositionDEF: n.DEF,
		"FLEX":      n.Flex,
		"BENCH":     n.Bench,
	}
}

// TeamRoster is one team's accumulated picks grouped by position.
type TeamRoster struct {
	RosterID  int      `json:"roster_id"`
	OwnerID   string   `json:"owner_id"`
	OwnerName string   `json:"owner_name"`
	TeamName  string   `json:"team_name"`
	QB        []string `json:"qb"`
	RB        []string `json:"rb"`
	WR        []string `json:"wr"`
	TE        []string `json:"te"`
	K         []string `json:"k"`
	DEF       []string `json:"def"`
	Bench     []string `json:"bench"`

	Needs PositionNeeds `json:"needs"`
}

// NewTeamRoster returns an empty roster for rosterID.
func NewTeamRoster(rosterID int) *TeamRoster {
	return &TeamRoster{RosterID: rosterID}
}

// AddPlayer files playerID under its position. Positions a roster does not
// track go to the bench.
func (r *TeamRoster) AddPlayer(playerID, position string) {
	switch position {
	case PositionQB:
		r.QB = append(r.QB, playerID)
	case PositionRB:
		r.RB = append(r.RB, playerID)
	case PositionWR:
		r.WR = append(r.WR, playerID)
	case PositionTE:
		r.TE = append(r.TE, playerID)
	case PositionK:
		r.K = append(r.K, playerID)
	case PositionDEF:
		r.DEF = append(r.DEF, playerID)
	default:
		r.Bench = append(r.Bench, playerID)
	}
}

// Count returns the number of players held at position.
func (r *TeamRoster) Count(position string) int {
	switch position {
	case PositionQB:
		return len(r.QB)
	case PositionRB:
		return len(r.RB)
	case PositionWR:
		return len(r.WR)
	case PositionTE:
		return len(r.TE)
	case PositionK:
		return len(r.K)
	case PositionDEF:
		return len(r.DEF)
	case "BENCH", SlotBench:
		return len(r.Bench)
	}
	return 0
}

// Counts returns per-position player counts.
func (r *TeamRoster) Counts() map[string]int {
	out := make(map[string]int, len(Positions)+1)
	for _, p := range Positions {
		out[p] = r.Count(p)
	}
	out["BENCH"] = len(r.Bench)
	return out
}

// TotalPlayers is the number of players on the roster.
func (r *TeamRoster) TotalPlayers() int {
	return len(r.QB) + len(r.RB) + len(r.WR) + len(r.TE) + len(r.K) + len(r.DEF) + len(r.Bench)
}

// CalculateNeeds recomputes Needs from the league's roster slot list.
func (r *TeamRoster) CalculateNeeds(rosterPositions []string) {
	req := map[string]int{}
	for _, slot := range rosterPositions {
		switch slot {
		case SlotFlex, SlotWRRBFlex, SlotRecFlex:
			req[SlotFlex]++
		default:
			req[slot]++
		}
	}

	flexEligible := len(r.RB) + len(r.WR) + len(r.TE)
	flexSurplus := max(0, flexEligible-req[PositionRB]-req[PositionWR]-req[PositionTE])

	r.Needs = PositionNeeds{
		QB:    max(0, req[PositionQB]-len(r.QB)),
		RB:    max(0, req[PositionRB]-len(r.RB)),
		WR:    max(0, req[PositionWR]-len(r.WR)),
		TE:    max(0, req[PositionTE]-len(r.TE)),
		K:     max(0, req[PositionK]-len(r.K)),
		DEF:   max(0, req[PositionDEF]-len(r.DEF)),
		Flex:  max(0, req[SlotFlex]-flexSurplus),
		Bench: max(0, req[SlotBench]-len(r.Bench)),
	}
}

// Clone returns a deep copy of the roster.
func (r *TeamRoster) Clone() *TeamRoster {
	if r == nil {
		return nil
	}
	out := *r
	out.QB = append([]string(nil), r.QB...)
	out.RB = append([]string(nil), r.RB...)
	out.WR = append([]string(nil), r.WR...)
	out.TE = append([]string(nil), r.TE...)
	out.K = append([]string(nil), r.K...)
	out.DEF = append([]string(nil), r.DEF...)
	out.Bench = append([]string(nil), r.Bench...)
	return &out
}
