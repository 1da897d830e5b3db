package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

var (
	recDraftID  string
	recRosterID int
	recLimit    int
	recPosition string
	recJSON     bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print ranked recommendations for a roster, or pre-draft values without a draft",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recDraftID, "draft", "", "draft id (overrides draft.id); omit for pre-draft values")
	recommendCmd.Flags().IntVar(&recRosterID, "roster", 0, "roster id to recommend for (overrides draft.roster_id)")
	recommendCmd.Flags().IntVarP(&recLimit, "limit", "n", 20, "number of players to show")
	recommendCmd.Flags().StringVarP(&recPosition, "position", "p", "", "only show this position")
	recommendCmd.Flags().BoolVar(&recJSON, "json", false, "print the full result as JSON")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	services, err := setupServices(ctx, cfg, serviceNeeds{projections: true})
	if err != nil {
		return err
	}
	defer services.Close()

	draftID := recDraftID
	if draftID == "" {
		draftID = cfg.Draft.ID
	}
	rosterID := recRosterID
	if rosterID == 0 {
		rosterID = cfg.Draft.RosterID
	}

	var (
		res *vorp.Result
		st  *state.DraftState
	)
	if draftID == "" {
		res, err = services.Engine.Compute(vorp.Request{
			Players:  services.Projections.Players,
			ADPRanks: services.Projections.ADP,
		})
	} else {
		mgr := services.newManager(draftID, cfg.Draft)
		if st, err = mgr.Initialize(ctx); err != nil {
			return err
		}
		res, err = mgr.Recommend(services.Engine, services.Projections.Players, services.Projections.ADP, rosterID)
	}
	if err != nil {
		return err
	}
	for _, ex := range res.Excluded {
		log.Debug().Str("player_id", ex.PlayerID).Str("reason", ex.Reason).Msg("excluded projection row")
	}

	insights := vorp.BuildInsights(res, st, rosterID)
	players := res.Players
	if recPosition != "" {
		players = res.ByPosition(strings.ToUpper(recPosition))
	}
	if recLimit > 0 && len(players) > recLimit {
		players = players[:recLimit]
	}

	out := cmd.OutOrStdout()
	if recJSON {
		return writeJSON(out, map[string]any{
			"roster_id":  rosterID,
			"is_dynamic": res.Context != nil,
			"players":    players,
			"levels":     res.DynamicLevels,
			"insights":   insights,
		})
	}

	title := "Pre-draft values"
	if st != nil {
		title = fmt.Sprintf("Recommendations for roster %d at pick %d", rosterID, st.CurrentPick)
	}
	renderRecommendations(out, title, players)
	renderInsights(out, insights)
	return nil
}
