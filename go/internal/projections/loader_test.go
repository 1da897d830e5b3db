package projections

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proj.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"player_id": "p1", "player_name": "Josh Allen", "position": "QB", "team": "BUF", "projected_points": 390.5, "adp_rank": 22},
		{"player_id": "p2", "player_name": "Bijan Robinson", "position": "RB", "team": "ATL", "projected_points": 310}
	]`), 0o600))

	snap, err := Load(path)
	require.NoError(t, err)
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "Josh Allen", snap.Players[0].Name)
	assert.InDelta(t, 390.5, snap.Players[0].ProjectedPoints, 1e-9)
	assert.Equal(t, map[string]float64{"p1": 22}, snap.ADP)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}
