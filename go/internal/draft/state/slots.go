package state

import "github.com/mcdev12/draftpilot/go/internal/models"

// RoundForPick returns the 1-based round that overall pick falls in.
func RoundForPick(pick, totalTeams int) int {
	if totalTeams <= 0 || pick <= 0 {
		return 1
	}
	return ((pick - 1) / totalTeams) + 1
}

// SlotForPick returns the draft slot on the clock for overall pick. Snake
// drafts reverse the order in even rounds.
func SlotForPick(pick, totalTeams int, draftType models.DraftType) int {
	if totalTeams <= 0 || pick <= 0 {
		return 1
	}
	offset := (pick - 1) % totalTeams
	if draftType == models.DraftTypeSnake && RoundForPick(pick, totalTeams)%2 == 0 {
		return totalTeams - offset
	}
	return offset + 1
}

// NextPickForSlot returns the first overall pick strictly after `after` that
// belongs to slot, or 0 if the slot has no further picks.
func NextPickForSlot(slot, after, totalTeams, totalRounds int, draftType models.DraftType) int {
	total := totalTeams * totalRounds
	if slot <= 0 || slot > totalTeams {
		return 0
	}
	// A slot picks exactly once per round, so only one candidate per round
	// needs checking.
	for round := RoundForPick(after+1, totalTeams); round <= totalRounds; round++ {
		var pick int
		if draftType == models.DraftTypeSnake && round%2 == 0 {
			pick = (round-1)*totalTeams + (totalTeams - slot + 1)
		} else {
			pick = (round-1)*totalTeams + slot
		}
		if pick > after && pick <= total {
			return pick
		}
	}
	return 0
}
