package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/clients/sleeper_client"
)

// ErrPickHistoryRewritten is returned when the provider reports fewer picks
// than were already observed. Pick lists are assumed to be append-only.
var ErrPickHistoryRewritten = errors.New("provider pick history shrank")

// PickSource is the subset of the provider client the monitor needs.
type PickSource interface {
	GetDraft(ctx context.Context, draftID string) (*sleeper_client.Draft, error)
	GetDraftPicks(ctx context.Context, draftID string) ([]sleeper_client.Pick, error)
}

// Monitor turns repeated full pick-list fetches into "new picks since last
// poll". It is safe for concurrent use.
type Monitor struct {
	draftID string
	source  PickSource

	mu        sync.Mutex
	draft     *sleeper_client.Draft
	picks     []sleeper_client.Pick
	lastCount int
}

func New(draftID string, source PickSource) *Monitor {
	return &Monitor{draftID: draftID, source: source}
}

func (m *Monitor) DraftID() string {
	return m.draftID
}

// DraftInfo returns the cached draft object, fetching it on first use or
// when forceRefresh is set.
func (m *Monitor) DraftInfo(ctx context.Context, forceRefresh bool) (*sleeper_client.Draft, error) {
	m.mu.Lock()
	cached := m.draft
	m.mu.Unlock()

	if cached != nil && !forceRefresh {
		return cached, nil
	}

	draft, err := m.source.GetDraft(ctx, m.draftID)
	if err != nil {
		return nil, fmt.Errorf("fetch draft %s: %w", m.draftID, err)
	}

	m.mu.Lock()
	m.draft = draft
	m.mu.Unlock()
	return draft, nil
}

// AllPicks fetches the full pick list and marks every pick as observed.
func (m *Monitor) AllPicks(ctx context.Context) ([]sleeper_client.Pick, error) {
	picks, err := m.source.GetDraftPicks(ctx, m.draftID)
	if err != nil {
		return nil, fmt.Errorf("fetch picks for draft %s: %w", m.draftID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.picks = picks
	m.lastCount = len(picks)
	return append([]sleeper_client.Pick(nil), picks...), nil
}

// PollNewPicks returns the picks that appeared since the previous call.
func (m *Monitor) PollNewPicks(ctx context.Context) ([]sleeper_client.Pick, error) {
	picks, err := m.source.GetDraftPicks(ctx, m.draftID)
	if err != nil {
		return nil, fmt.Errorf("poll picks for draft %s: %w", m.draftID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case len(picks) < m.lastCount:
		log.Warn().
			Str("draft_id", m.draftID).
			Int("observed", m.lastCount).
			Int("reported", len(picks)).
			Msg("provider returned fewer picks than already observed")
		return nil, fmt.Errorf("draft %s: had %d picks, provider reports %d: %w",
			m.draftID, m.lastCount, len(picks), ErrPickHistoryRewritten)
	case len(picks) == m.lastCount:
		return nil, nil
	}

	fresh := append([]sleeper_client.Pick(nil), picks[m.lastCount:]...)
	m.picks = picks
	m.lastCount = len(picks)

	log.Debug().
		Str("draft_id", m.draftID).
		Int("new_picks", len(fresh)).
		Int("total_picks", m.lastCount).
		Msg("detected new picks")
	return fresh, nil
}

// IsActive reports whether the provider says the draft is in progress.
// It always refetches the draft, so the cached object is refreshed too.
func (m *Monitor) IsActive(ctx context.Context) (bool, error) {
	draft, err := m.DraftInfo(ctx, true)
	if err != nil {
		return false, err
	}
	return draft.Status == "drafting", nil
}

// ObservedCount is the number of picks seen so far.
func (m *Monitor) ObservedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCount
}

// Rewind moves the observed cursor back to n so that picks after it are
// returned again by the next PollNewPicks. It never moves the cursor forward.
func (m *Monitor) Rewind(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCount = min(max(n, 0), m.lastCount)
}

// Reset forgets cached draft info and observed picks.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = nil
	m.picks = nil
	m.lastCount = 0
}
