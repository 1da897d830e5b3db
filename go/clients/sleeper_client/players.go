package sleeper_client

import "context"

// GetPlayers downloads the full player directory for sport. The payload
// is several megabytes; callers should cache it (see internal/players).
func (c *SleeperClient) GetPlayers(ctx context.Context, sport string) (map[string]Player, error) {
	if sport == "" {
		sport = "nfl"
	}
	players := make(map[string]Player)
	if err := c.getJSON(ctx, "get players", playersPath(sport), &players, false); err != nil {
		return nil, err
	}
	for id, p := range players {
		if p.PlayerID == "" {
			p.PlayerID = id
			players[id] = p
		}
	}
	return players, nil
}
