package manager

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/clients/sleeper_client"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

// StartMonitoring starts the polling worker. Only one worker may run per
// manager.
func (m *Manager) StartMonitoring(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	m.mu.RLock()
	initialized := m.state != nil
	m.mu.RUnlock()
	if !initialized {
		return ErrNotInitialized
	}

	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.done != nil {
		select {
		case <-m.done:
			// previous worker finished on its own
		default:
			return ErrAlreadyMonitoring
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	m.mu.Lock()
	if m.status != StatusComplete {
		m.status = StatusMonitoring
	}
	m.mu.Unlock()

	go m.run(ctx, interval, m.done)

	log.Info().
		Str("draft_id", m.draftID).
		Str("manager_id", m.id).
		Dur("poll_interval", interval).
		Msg("started monitoring draft")
	return nil
}

// StopMonitoring signals the worker and waits up to the stop timeout for
// it to exit. A cycle that is applying picks always finishes first.
func (m *Manager) StopMonitoring() error {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.done == nil {
		return nil
	}

	m.cancel()
	timer := time.NewTimer(m.stopTimeout)
	defer timer.Stop()

	select {
	case <-m.done:
	case <-timer.C:
		log.Error().
			Str("draft_id", m.draftID).
			Dur("timeout", m.stopTimeout).
			Msg("monitoring worker did not stop in time")
		return fmt.Errorf("draft %s: %w", m.draftID, ErrStopTimeout)
	}

	m.cancel = nil
	m.done = nil

	m.mu.Lock()
	if m.status == StatusMonitoring {
		m.status = StatusDisconnected
	}
	m.mu.Unlock()

	log.Info().Str("draft_id", m.draftID).Msg("stopped monitoring draft")
	return nil
}

// IsMonitoring reports whether the worker goroutine is alive.
func (m *Manager) IsMonitoring() bool {
	m.runMu.Lock()
	done := m.done
	m.runMu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

func (m *Manager) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	for {
		wait, complete := m.cycle(ctx, interval)
		if complete {
			m.setStatus(StatusComplete)
			log.Info().Str("draft_id", m.draftID).Msg("draft complete, monitoring finished")
			return
		}

		timer := m.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

// cycle runs one poll. It returns how long to wait before the next one and
// whether the draft is complete.
func (m *Manager) cycle(ctx context.Context, interval time.Duration) (time.Duration, bool) {
	fresh, err := m.monitor.PollNewPicks(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return interval, false
		}
		return m.recordFailure(err, interval), false
	}

	slices.SortStableFunc(fresh, func(a, b sleeper_client.Pick) int {
		return cmp.Compare(a.PickNo, b.PickNo)
	})

	m.mu.RLock()
	settings := m.state.Settings
	next := m.state.CurrentPick
	m.mu.RUnlock()

	converted := make([]models.DraftPick, 0, len(fresh))
	for _, p := range fresh {
		// Redelivered after a rewind.
		if p.PickNo < next {
			continue
		}
		converted = append(converted, m.convertPick(ctx, p, settings))
	}

	applied, applyErr := m.apply(converted)
	if applyErr != nil {
		m.monitor.Rewind(m.monitor.ObservedCount() - len(fresh))
		log.Error().
			Err(applyErr).
			Str("draft_id", m.draftID).
			Int("applied", len(applied)).
			Int("received", len(converted)).
			Msg("failed to apply picks, will retry the batch")
	}

	if len(applied) > 0 {
		m.notify(applied)
	}

	m.mu.RLock()
	complete := m.state.IsComplete()
	m.mu.RUnlock()
	return interval, complete
}

// apply adds picks under the write lock. Picks after a rejected one are
// left for the next cycle.
func (m *Manager) apply(picks []models.DraftPick) ([]models.DraftPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSuccess = m.clock.Now()
	m.failures = 0
	m.lastErr = nil

	applied := make([]models.DraftPick, 0, len(picks))
	for _, p := range picks {
		if err := m.state.AddPick(p); err != nil {
			m.lastErr = err
			return applied, err
		}
		applied = append(applied, p)
	}
	return applied, nil
}

func (m *Manager) recordFailure(err error, interval time.Duration) time.Duration {
	m.mu.Lock()
	m.failures++
	m.lastErr = err
	failures := m.failures
	if errors.Is(err, sleeper_client.ErrInvalidDraftReference) {
		m.invalidRef = true
	}
	m.mu.Unlock()

	wait := interval
	if errors.Is(err, sleeper_client.ErrRateLimited) {
		wait = m.backoff(interval, failures, sleeper_client.RetryAfter(err))
	}

	log.Warn().
		Err(err).
		Str("draft_id", m.draftID).
		Int("consecutive_failures", failures).
		Dur("retry_in", wait).
		Msg("draft poll failed")
	return wait
}

// backoff is max(interval, retryAfter, interval*2^(failures-1)), capped at
// the configured maximum but never below the interval.
func (m *Manager) backoff(interval time.Duration, failures int, retryAfter time.Duration) time.Duration {
	exp := interval
	for i := 1; i < failures && exp < m.maxBackoff; i++ {
		exp *= 2
	}
	wait := max(interval, exp, retryAfter)
	if m.maxBackoff > 0 && wait > m.maxBackoff {
		wait = max(m.maxBackoff, interval)
	}
	return wait
}

// notify runs callbacks after a cycle's picks are all applied.
func (m *Manager) notify(applied []models.DraftPick) {
	m.cbMu.RLock()
	pickCbs := slices.Clone(m.pickCallbacks)
	stateCbs := slices.Clone(m.stateCallbacks)
	refresh := m.uiRefresh
	m.cbMu.RUnlock()

	for _, p := range applied {
		for _, cb := range pickCbs {
			m.safeCall("pick", func() { cb(p) })
		}
	}
	if len(stateCbs) > 0 {
		snapshot := m.Snapshot()
		for _, cb := range stateCbs {
			m.safeCall("state", func() { cb(snapshot) })
		}
	}
	if refresh != nil {
		log.Debug().Str("draft_id", m.draftID).Int("new_picks", len(applied)).Msg("triggering UI refresh")
		m.safeCall("ui refresh", refresh)
	}
}

func (m *Manager) safeCall(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("draft_id", m.draftID).
				Str("callback", kind).
				Interface("panic", r).
				Msg("callback panicked")
		}
	}()
	fn()
}
