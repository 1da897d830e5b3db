package sleeper_client

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft is the provider's draft object.
type Draft struct {
	DraftID         string            `json:"draft_id"`
	LeagueID        string            `json:"league_id"`
	Status          string            `json:"status"`
	Type            string            `json:"type"`
	Season          string            `json:"season"`
	Sport           string            `json:"sport"`
	StartTime       int64             `json:"start_time"`
	Settings        DraftSettings     `json:"settings"`
	Metadata        map[string]string `json:"metadata"`
	DraftOrder      map[string]int    `json:"draft_order"`
	SlotToRosterID  map[string]int    `json:"slot_to_roster_id"`
	LastPicked      int64             `json:"last_picked"`
	LastMessageTime int64             `json:"last_message_time"`
}

// DraftSettings are the numeric settings attached to a draft.
type DraftSettings struct {
	Teams     int `json:"teams"`
	Rounds    int `json:"rounds"`
	PickTimer int `json:"pick_timer"`
	SlotsQB   int `json:"slots_qb"`
	SlotsRB   int `json:"slots_rb"`
	SlotsWR   int `json:"slots_wr"`
	SlotsTE   int `json:"slots_te"`
	SlotsFlex int `json:"slots_flex"`
	SlotsK    int `json:"slots_k"`
	SlotsDEF  int `json:"slots_def"`
	SlotsBN   int `json:"slots_bn"`
}

// SlotToRoster converts the provider's string-keyed slot mapping.
// Malformed keys are skipped.
func (d *Draft) SlotToRoster() map[int]int {
	if len(d.SlotToRosterID) == 0 {
		return nil
	}
	out := make(map[int]int, len(d.SlotToRosterID))
	for k, v := range d.SlotToRosterID {
		slot, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[slot] = v
	}
	return out
}

// Pick is one entry of a draft's pick list.
type Pick struct {
	DraftID   string            `json:"draft_id"`
	PickNo    int               `json:"pick_no"`
	Round     int               `json:"round"`
	DraftSlot int               `json:"draft_slot"`
	PlayerID  string            `json:"player_id"`
	RosterID  flexInt           `json:"roster_id"`
	PickedBy  string            `json:"picked_by"`
	IsKeeper  bool              `json:"is_keeper"`
	Metadata  map[string]string `json:"metadata"`
}

// PlayerName assembles the display name carried in pick metadata.
func (p Pick) PlayerName() string {
	return strings.TrimSpace(p.Metadata["first_name"] + " " + p.Metadata["last_name"])
}

// League is the provider's league object.
type League struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	Status          string             `json:"status"`
	TotalRosters    int                `json:"total_rosters"`
	DraftID         string             `json:"draft_id"`
	RosterPositions []string           `json:"roster_positions"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
}

// ScoringType derives ppr / half_ppr / standard from reception scoring.
func (l *League) ScoringType() string {
	switch rec := l.ScoringSettings["rec"]; {
	case rec >= 1:
		return "ppr"
	case rec > 0:
		return "half_ppr"
	default:
		return "standard"
	}
}

// User is a league member.
type User struct {
	UserID      string         `json:"user_id"`
	Username    string         `json:"username"`
	DisplayName string         `json:"display_name"`
	Metadata    map[string]any `json:"metadata"`
}

// TeamName returns the user's team name, falling back to the display name.
func (u User) TeamName() string {
	if name, _ := u.Metadata["team_name"].(string); name != "" {
		return name
	}
	return u.DisplayName
}

// Roster is a league roster and its owner.
type Roster struct {
	RosterID int      `json:"roster_id"`
	OwnerID  string   `json:"owner_id"`
	LeagueID string   `json:"league_id"`
	Players  []string `json:"players"`
}

// Player is an entry in the provider's player directory.
type Player struct {
	PlayerID         string   `json:"player_id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	FullName         string   `json:"full_name"`
	Position         string   `json:"position"`
	Team             string   `json:"team"`
	Status           string   `json:"status"`
	Active           bool     `json:"active"`
	FantasyPositions []string `json:"fantasy_positions"`
	SearchRank       int      `json:"search_rank"`
	YearsExp         int      `json:"years_exp"`
	InjuryStatus     string   `json:"injury_status"`
}

// Name returns the best available display name.
func (p Player) Name() string {
	if p.FullName != "" {
		return p.FullName
	}
	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		return name
	}
	// Team defenses only carry a team abbreviation.
	return p.PlayerID
}

// flexInt accepts numbers, numeric strings and null.
type flexInt int

// Int returns the value as a plain int.
func (f flexInt) Int() int { return int(f) }

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("roster_id %q: %w", s, err)
	}
	*f = flexInt(v)
	return nil
}
