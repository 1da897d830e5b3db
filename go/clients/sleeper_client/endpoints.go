package sleeper_client

import "fmt"

const (
	DefaultBaseURL = "https://api.sleeper.app/v1"

	draftEndpoint        = "/draft/%s"
	draftPicksEndpoint   = "/draft/%s/picks"
	leagueEndpoint       = "/league/%s"
	leagueUsersEndpoint  = "/league/%s/users"
	leagueRosterEndpoint = "/league/%s/rosters"
	leagueDraftsEndpoint = "/league/%s/drafts"
	playersEndpoint      = "/players/%s"
)

func draftPath(draftID string) string        { return fmt.Sprintf(draftEndpoint, draftID) }
func draftPicksPath(draftID string) string   { return fmt.Sprintf(draftPicksEndpoint, draftID) }
func leaguePath(leagueID string) string      { return fmt.Sprintf(leagueEndpoint, leagueID) }
func leagueUsersPath(leagueID string) string { return fmt.Sprintf(leagueUsersEndpoint, leagueID) }
func leagueRostersPath(leagueID string) string {
	return fmt.Sprintf(leagueRosterEndpoint, leagueID)
}
func leagueDraftsPath(leagueID string) string { return fmt.Sprintf(leagueDraftsEndpoint, leagueID) }
func playersPath(sport string) string         { return fmt.Sprintf(playersEndpoint, sport) }
