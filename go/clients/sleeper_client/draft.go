package sleeper_client

import "context"

// GetDraft fetches draft metadata and settings.
func (c *SleeperClient) GetDraft(ctx context.Context, draftID string) (*Draft, error) {
	var d Draft
	if err := c.getJSON(ctx, "get draft", draftPath(draftID), &d, true); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDraftPicks fetches every pick made so far, in provider order.
func (c *SleeperClient) GetDraftPicks(ctx context.Context, draftID string) ([]Pick, error) {
	var picks []Pick
	if err := c.getJSON(ctx, "get draft picks", draftPicksPath(draftID), &picks, false); err != nil {
		return nil, err
	}
	return picks, nil
}
