package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mcdev12/draftpilot/go/internal/draft/manager"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	riseStyle   = numberStyle.Foreground(lipgloss.Color("10"))
	fallStyle   = numberStyle.Foreground(lipgloss.Color("9"))
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Columns from textColumns on are numbers and right aligned.
const textColumns = 4

func renderRecommendations(w io.Writer, title string, players []vorp.Metrics) {
	rows := make([][]string, 0, len(players))
	for _, m := range players {
		rows = append(rows, []string{
			strconv.Itoa(m.Rank),
			m.Name,
			m.Position,
			m.Team,
			fmt.Sprintf("%.1f", m.ProjectedPoints),
			fmt.Sprintf("%.1f", m.DynamicVORP),
			fmt.Sprintf("%.2f", m.ScarcityMultiplier),
			fmt.Sprintf("%.2f", m.RoundStrategyAdjustment),
			fmt.Sprintf("%.2f", m.RosterConstructionMultiplier),
			fmt.Sprintf("%.2f", m.MarketInefficiencyMultiplier),
			fmt.Sprintf("%.1f", m.FinalScore),
			fmt.Sprintf("%+d", m.RankDelta),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "PLAYER", "POS", "TEAM", "PTS", "VORP", "SCAR", "ROUND", "ROSTER", "MKT", "SCORE", "MOVE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < textColumns && col != 0:
				return cellStyle
			case col == 11:
				delta := players[row].RankDelta
				if delta > 0 {
					return riseStyle
				}
				if delta < 0 {
					return fallStyle
				}
			}
			return numberStyle
		})

	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, t)
}

func renderInsights(w io.Writer, in vorp.Insights) {
	fmt.Fprintln(w, titleStyle.Render("Board"))
	fmt.Fprintf(w, "  picks %d (%.1f%%), round %d\n", in.PicksMade, in.CompletionPct, in.CurrentRound)
	for _, pos := range []string{"QB", "RB", "WR", "TE"} {
		fmt.Fprintf(w, "  %-3s scarcity %-8s replacement shift %+.1f", pos, in.ScarcityLevels[pos], in.ReplacementShifts[pos])
		if need, ok := in.RosterNeeds[pos]; ok {
			fmt.Fprintf(w, "  need %s", need)
		}
		fmt.Fprintln(w)
	}
	for pos, run := range in.PositionRuns {
		fmt.Fprintf(w, "  run: %d %s in the last picks (%s)\n", run.Count, pos, run.Severity)
	}
	for _, c := range in.Contrarian {
		fmt.Fprintf(w, "  value: %s (%s) ADP %.0f vs VORP rank %d, %s confidence\n", c.Name, c.Position, c.ADPRank, c.VORPRank, c.Confidence)
	}
}

func renderSummary(w io.Writer, s manager.Summary) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s  pick %d, round %d (%s)",
		s.DraftInfo.LeagueName, s.DraftInfo.CurrentPick, s.DraftInfo.CurrentRound, s.DraftInfo.Status)))

	rows := make([][]string, 0, len(s.Teams))
	for _, tn := range s.Teams {
		last := ""
		if n := len(tn.RecentPicks); n > 0 {
			last = tn.RecentPicks[n-1].PlayerName
		}
		rows = append(rows, []string{
			strconv.Itoa(tn.RosterID),
			tn.OwnerName,
			strconv.Itoa(tn.TotalPicks),
			fmt.Sprintf("%d/%d/%d/%d", tn.Counts["QB"], tn.Counts["RB"], tn.Counts["WR"], tn.Counts["TE"]),
			last,
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ROSTER", "OWNER", "PICKS", "QB/RB/WR/TE", "LAST PICK").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t)
}
