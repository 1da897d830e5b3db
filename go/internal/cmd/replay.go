package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/draftpilot/go/internal/draft/archive"
	"github.com/mcdev12/draftpilot/go/internal/draft/manager"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

var (
	replayUpTo     int
	replayRosterID int
	replayLimit    int
	replayJSON     bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <draft-id>",
	Short: "Rebuild an archived draft, optionally stopping at a pick, and show the board",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&replayUpTo, "upto", 0, "stop after this many picks (0 replays every pick)")
	replayCmd.Flags().IntVar(&replayRosterID, "roster", 0, "also rank players for this roster id")
	replayCmd.Flags().IntVarP(&replayLimit, "limit", "n", 15, "number of players to show")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print the state summary as JSON")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	draftID := cfg.Draft.ID
	if len(args) == 1 {
		draftID = args[0]
	}
	if draftID == "" {
		return fmt.Errorf("a draft id is required")
	}

	services, err := setupServices(ctx, cfg, serviceNeeds{archive: true, projections: replayRosterID != 0})
	if err != nil {
		return err
	}
	defer services.Close()

	st, err := archive.Replay(ctx, services.Archive, draftID, replayUpTo)
	if err != nil {
		return err
	}
	summary := manager.Summarize(draftID, st)

	out := cmd.OutOrStdout()
	if replayJSON {
		return writeJSON(out, summary)
	}
	renderSummary(out, summary)

	if replayRosterID == 0 {
		return nil
	}

	// Picks carry provider ids; map them onto projections before ranking.
	var ids vorp.IDResolver
	if mapping, err := manager.BuildMapping(ctx, services.Directory, services.Projections.Players); err != nil {
		log.Warn().Err(err).Msg("player directory unavailable, using provider ids as projection ids")
	} else {
		ids = mapping
	}

	res, err := services.Engine.Compute(vorp.Request{
		Players:  services.Projections.Players,
		ADPRanks: services.Projections.ADP,
		State:    st,
		RosterID: replayRosterID,
		IDs:      ids,
	})
	if err != nil {
		return err
	}
	players := res.Top(replayLimit)
	renderRecommendations(out, fmt.Sprintf("Roster %d at pick %d", replayRosterID, st.CurrentPick), players)
	renderInsights(out, vorp.BuildInsights(res, st, replayRosterID))
	return nil
}
