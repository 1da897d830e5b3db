package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

const DefaultWriteTimeout = 3 * time.Second

// Recorder writes applied picks to a Store. HandlePick is meant to be
// registered with the manager's OnPick; failures are logged, never
// propagated to the polling loop.
type Recorder struct {
	store   Store
	draftID string
	timeout time.Duration
}

func NewRecorder(store Store, draftID string) *Recorder {
	return &Recorder{store: store, draftID: draftID, timeout: DefaultWriteTimeout}
}

// Start saves the draft settings and any picks already made.
func (r *Recorder) Start(ctx context.Context, st *state.DraftState) error {
	if err := r.store.SaveDraft(ctx, st.Settings, st.Picks); err != nil {
		return err
	}
	log.Info().Str("draft_id", r.draftID).Int("picks", len(st.Picks)).Msg("archived draft")
	return nil
}

func (r *Recorder) HandlePick(p models.DraftPick) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.store.SavePick(ctx, r.draftID, p); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", r.draftID).
			Int("pick_no", p.PickNumber).
			Msg("failed to archive pick")
	}
}

// Replay rebuilds the draft state from the archive, optionally stopping
// after upTo picks (0 means all).
func Replay(ctx context.Context, store Store, draftID string, upTo int) (*state.DraftState, error) {
	settings, err := store.LoadSettings(ctx, draftID)
	if err != nil {
		return nil, err
	}
	picks, err := store.ListPicks(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if upTo > 0 && upTo < len(picks) {
		picks = picks[:upTo]
	}

	st, err := state.Initialize(settings, picks)
	if err != nil {
		return nil, fmt.Errorf("replay draft %s: %w", draftID, err)
	}
	return st, nil
}
