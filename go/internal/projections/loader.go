package projections

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mcdev12/draftpilot/go/internal/models"
)

// Row is one record of the projections file written by the projections
// pipeline. ADPRank is optional.
type Row struct {
	models.Player
	ADPRank *float64 `json:"adp_rank,omitempty"`
}

// Snapshot is an immutable set of projections plus optional ADP ranks.
type Snapshot struct {
	Players []models.Player
	ADP     map[string]float64
}

// Load reads a JSON array of Rows from path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projections file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of Rows. Row validation is left to the
// consumer so malformed rows can be reported rather than rejected here.
func Parse(data []byte) (*Snapshot, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse projections: %w", err)
	}

	snap := &Snapshot{
		Players: make([]models.Player, 0, len(rows)),
		ADP:     make(map[string]float64),
	}
	for _, r := range rows {
		snap.Players = append(snap.Players, r.Player)
		if r.ADPRank != nil && r.ID != "" {
			snap.ADP[r.ID] = *r.ADPRank
		}
	}
	return snap, nil
}
