package sleeper_client

import "context"

func (c *SleeperClient) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	var l League
	if err := c.getJSON(ctx, "get league", leaguePath(leagueID), &l, true); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *SleeperClient) GetLeagueUsers(ctx context.Context, leagueID string) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "get league users", leagueUsersPath(leagueID), &users, false); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *SleeperClient) GetLeagueRosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var rosters []Roster
	if err := c.getJSON(ctx, "get league rosters", leagueRostersPath(leagueID), &rosters, false); err != nil {
		return nil, err
	}
	return rosters, nil
}

// GetLeagueDrafts lists the drafts attached to a league, newest first.
func (c *SleeperClient) GetLeagueDrafts(ctx context.Context, leagueID string) ([]Draft, error) {
	var drafts []Draft
	if err := c.getJSON(ctx, "get league drafts", leagueDraftsPath(leagueID), &drafts, false); err != nil {
		return nil, err
	}
	return drafts, nil
}
