package manager

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/clients/sleeper_client"
)

// DraftLister lists the drafts attached to a league, newest first.
type DraftLister interface {
	GetLeagueDrafts(ctx context.Context, leagueID string) ([]sleeper_client.Draft, error)
}

// DiscoverDraft picks the draft to track for a league: the newest draft
// that has not finished, else the newest draft.
func DiscoverDraft(ctx context.Context, lister DraftLister, leagueID string) (string, error) {
	drafts, err := lister.GetLeagueDrafts(ctx, leagueID)
	if err != nil {
		return "", fmt.Errorf("list drafts for league %s: %w", leagueID, err)
	}
	if len(drafts) == 0 {
		return "", fmt.Errorf("league %s has no drafts: %w", leagueID, sleeper_client.ErrInvalidDraftReference)
	}

	chosen := drafts[0]
	for _, d := range drafts {
		if d.Status != "complete" {
			chosen = d
			break
		}
	}
	log.Info().
		Str("league_id", leagueID).
		Str("draft_id", chosen.DraftID).
		Str("status", chosen.Status).
		Int("drafts", len(drafts)).
		Msg("discovered draft")
	return chosen.DraftID, nil
}
