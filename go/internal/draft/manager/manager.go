package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/clients/sleeper_client"
	"github.com/mcdev12/draftpilot/go/internal/draft/monitor"
	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
	"github.com/mcdev12/draftpilot/go/internal/reconcile"
)

// Defaults applied when the provider omits draft settings (mock drafts).
const (
	DefaultTeams         = 12
	DefaultRounds        = 15
	DefaultPickTimerSec  = 120
	DefaultStopTimeout   = 5 * time.Second
	DefaultFailureBudget = 5
	DefaultMaxBackoff    = 2 * time.Minute
)

// DefaultRosterPositions is the lineup assumed when no league is attached.
var DefaultRosterPositions = []string{
	"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K", "DEF",
	"BN", "BN", "BN", "BN", "BN", "BN",
}

// Status is the manager lifecycle state.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusInitializing Status = "initializing"
	StatusMonitoring   Status = "monitoring"
	StatusComplete     Status = "complete"
)

// Provider is everything the manager reads from the draft provider. League
// calls are optional in practice: mock drafts have no league.
type Provider interface {
	monitor.PickSource
	GetLeague(ctx context.Context, leagueID string) (*sleeper_client.League, error)
	GetLeagueUsers(ctx context.Context, leagueID string) ([]sleeper_client.User, error)
	GetLeagueRosters(ctx context.Context, leagueID string) ([]sleeper_client.Roster, error)
}

// PlayerDirectory resolves provider player ids. players.Directory satisfies it.
type PlayerDirectory interface {
	Players(ctx context.Context, forceRefresh bool) (map[string]sleeper_client.Player, error)
	Player(ctx context.Context, id string) (sleeper_client.Player, bool)
}

// Manager owns the draft state for one draft and the single polling worker
// that mutates it. Every other caller reads cloned snapshots.
type Manager struct {
	id            string
	draftID       string
	provider      Provider
	monitor       *monitor.Monitor
	clock         clockwork.Clock
	directory     PlayerDirectory
	projections   []models.Player
	stopTimeout   time.Duration
	failureBudget int
	maxBackoff    time.Duration

	mu          sync.RWMutex
	state       *state.DraftState
	mapping     *reconcile.Mapping
	status      Status
	lastSuccess time.Time
	lastErr     error
	failures    int
	invalidRef  bool

	cbMu           sync.RWMutex
	pickCallbacks  []func(models.DraftPick)
	stateCallbacks []func(*state.DraftState)
	uiRefresh      func()

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Manager)

func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithPlayerDirectory enables player lookups for pick conversion.
func WithPlayerDirectory(dir PlayerDirectory) Option {
	return func(m *Manager) { m.directory = dir }
}

// WithProjections supplies the projection set the provider ids are
// reconciled against.
func WithProjections(players []models.Player) Option {
	return func(m *Manager) { m.projections = players }
}

func WithStopTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.stopTimeout = d
		}
	}
}

// WithFailureBudget sets how many consecutive unavailable polls are
// tolerated before Health reports the budget as exhausted.
func WithFailureBudget(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.failureBudget = n
		}
	}
}

func WithMaxBackoff(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.maxBackoff = d
		}
	}
}

func New(draftID string, provider Provider, opts ...Option) *Manager {
	m := &Manager{
		id:            uuid.NewString(),
		draftID:       draftID,
		provider:      provider,
		monitor:       monitor.New(draftID, provider),
		clock:         clockwork.NewRealClock(),
		stopTimeout:   DefaultStopTimeout,
		failureBudget: DefaultFailureBudget,
		maxBackoff:    DefaultMaxBackoff,
		status:        StatusDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) DraftID() string {
	return m.draftID
}

// Initialize loads the draft, its league context and every existing pick,
// and builds the draft state. Any error here is returned to the caller;
// missing league data is not an error and falls back to mock defaults.
func (m *Manager) Initialize(ctx context.Context) (*state.DraftState, error) {
	if m.IsMonitoring() {
		return nil, ErrAlreadyMonitoring
	}
	m.setStatus(StatusInitializing)

	draft, err := m.monitor.DraftInfo(ctx, true)
	if err != nil {
		m.initFailed(err)
		return nil, fmt.Errorf("initialize draft %s: %w", m.draftID, err)
	}

	lc, err := m.loadLeague(ctx, draft.LeagueID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("draft_id", m.draftID).
			Str("league_id", draft.LeagueID).
			Msg("proceeding with draft-only data")
		lc = nil
	}

	settings := buildSettings(draft, lc)

	picks, err := m.monitor.AllPicks(ctx)
	if err != nil {
		m.initFailed(err)
		return nil, fmt.Errorf("initialize draft %s: %w", m.draftID, err)
	}

	converted := make([]models.DraftPick, 0, len(picks))
	for _, p := range picks {
		converted = append(converted, m.convertPick(ctx, p, settings))
	}

	st, err := state.Initialize(settings, converted)
	if err != nil {
		m.initFailed(err)
		return nil, fmt.Errorf("initialize draft %s: %w", m.draftID, err)
	}
	if ps := models.ParseDraftStatus(draft.Status); !st.IsComplete() &&
		(ps == models.DraftStatusDrafting || ps == models.DraftStatusPaused) {
		st.Status = ps
	}
	assignOwners(st, lc)

	mapping := m.buildMapping(ctx)

	m.mu.Lock()
	m.state = st
	m.mapping = mapping
	m.lastSuccess = m.clock.Now()
	m.lastErr = nil
	m.failures = 0
	m.invalidRef = false
	if st.IsComplete() {
		m.status = StatusComplete
	}
	snapshot := st.Clone()
	m.mu.Unlock()

	kind := "league draft"
	if lc == nil {
		kind = "mock draft"
	}
	log.Info().
		Str("draft_id", m.draftID).
		Str("manager_id", m.id).
		Str("kind", kind).
		Int("teams", settings.TotalTeams).
		Int("rounds", settings.TotalRounds).
		Int("existing_picks", len(converted)).
		Msg("initialized draft")
	return snapshot, nil
}

func (m *Manager) initFailed(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = StatusDisconnected
	m.lastErr = err
	if errors.Is(err, sleeper_client.ErrInvalidDraftReference) {
		m.invalidRef = true
	}
}

// leagueContext is the optional league data attached to a draft.
type leagueContext struct {
	league  *sleeper_client.League
	users   []sleeper_client.User
	rosters []sleeper_client.Roster
}

func (m *Manager) loadLeague(ctx context.Context, leagueID string) (*leagueContext, error) {
	if leagueID == "" || leagueID == "0" {
		return nil, fmt.Errorf("draft %s has no league: %w", m.draftID, ErrIncompleteLeagueContext)
	}
	league, err := m.provider.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("league %s: %w: %w", leagueID, ErrIncompleteLeagueContext, err)
	}
	users, err := m.provider.GetLeagueUsers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("league %s users: %w: %w", leagueID, ErrIncompleteLeagueContext, err)
	}
	rosters, err := m.provider.GetLeagueRosters(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("league %s rosters: %w: %w", leagueID, ErrIncompleteLeagueContext, err)
	}
	return &leagueContext{league: league, users: users, rosters: rosters}, nil
}

func buildSettings(d *sleeper_client.Draft, lc *leagueContext) models.DraftSettings {
	s := models.DraftSettings{
		LeagueID:     d.LeagueID,
		DraftID:      d.DraftID,
		TotalTeams:   orDefault(d.Settings.Teams, DefaultTeams),
		TotalRounds:  orDefault(d.Settings.Rounds, DefaultRounds),
		PickTimerSec: orDefault(d.Settings.PickTimer, DefaultPickTimerSec),
		DraftType:    models.ParseDraftType(d.Type),
		ScoringType:  "standard",
		DraftOrder:   d.DraftOrder,
		SlotToRoster: d.SlotToRoster(),
	}

	if st := d.Metadata["scoring_type"]; st != "" {
		s.ScoringType = st
	}
	s.LeagueName = d.Metadata["name"]

	if lc != nil && lc.league != nil {
		if lc.league.Name != "" {
			s.LeagueName = lc.league.Name
		}
		s.ScoringType = lc.league.ScoringType()
		s.RosterPositions = append([]string(nil), lc.league.RosterPositions...)
	}
	if s.LeagueName == "" {
		s.LeagueName = "Mock Draft"
	}
	if len(s.RosterPositions) == 0 {
		s.RosterPositions = append([]string(nil), DefaultRosterPositions...)
	}

	// Mock drafts often carry no slot mapping; treat slot n as roster n.
	if len(s.SlotToRoster) == 0 {
		s.SlotToRoster = make(map[int]int, s.TotalTeams)
		for slot := 1; slot <= s.TotalTeams; slot++ {
			s.SlotToRoster[slot] = slot
		}
	}
	return s
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func assignOwners(st *state.DraftState, lc *leagueContext) {
	if lc == nil || len(lc.users) == 0 || len(lc.rosters) == 0 {
		for id, r := range st.Rosters {
			r.OwnerName = fmt.Sprintf("Team %d", id)
			r.TeamName = r.OwnerName
		}
		return
	}

	users := make(map[string]sleeper_client.User, len(lc.users))
	for _, u := range lc.users {
		users[u.UserID] = u
	}
	for _, lr := range lc.rosters {
		r, ok := st.Rosters[lr.RosterID]
		if !ok {
			continue
		}
		r.OwnerID = lr.OwnerID
		u, ok := users[lr.OwnerID]
		switch {
		case !ok:
			r.OwnerName = "Unknown"
		case u.DisplayName != "":
			r.OwnerName = u.DisplayName
		default:
			r.OwnerName = u.Username
		}
		if ok {
			r.TeamName = u.TeamName()
		}
	}
}

// convertPick resolves player details from the directory, falling back to
// the pick's own metadata.
func (m *Manager) convertPick(ctx context.Context, p sleeper_client.Pick, settings models.DraftSettings) models.DraftPick {
	name, position, team := p.PlayerName(), p.Metadata["position"], p.Metadata["team"]
	if m.directory != nil {
		if pl, ok := m.directory.Player(ctx, p.PlayerID); ok {
			name, position, team = pl.Name(), pl.Position, pl.Team
		}
	}

	rosterID := p.RosterID.Int()
	if rosterID == 0 {
		rosterID = settings.SlotToRoster[p.DraftSlot]
	}

	var md map[string]string
	if len(p.Metadata) > 0 {
		md = make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			md[k] = v
		}
	}

	return models.DraftPick{
		PickNumber: p.PickNo,
		Round:      p.Round,
		DraftSlot:  p.DraftSlot,
		PlayerID:   p.PlayerID,
		PlayerName: name,
		Position:   position,
		Team:       team,
		RosterID:   rosterID,
		PickedBy:   p.PickedBy,
		Timestamp:  m.clock.Now(),
		Metadata:   md,
	}
}

// buildMapping reconciles provider ids with projection ids. It needs both
// a directory and projections; otherwise ids are used as-is.
func (m *Manager) buildMapping(ctx context.Context) *reconcile.Mapping {
	if m.directory == nil || len(m.projections) == 0 {
		return nil
	}
	mapping, err := BuildMapping(ctx, m.directory, m.projections)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", m.draftID).Msg("player directory unavailable, skipping reconciliation")
		return nil
	}
	return mapping
}

// BuildMapping reconciles every directory player against projections.
func BuildMapping(ctx context.Context, dir PlayerDirectory, projections []models.Player) (*reconcile.Mapping, error) {
	players, err := dir.Players(ctx, false)
	if err != nil {
		return nil, err
	}

	provider := make([]reconcile.Candidate, 0, len(players))
	for id, p := range players {
		provider = append(provider, reconcile.Candidate{ID: id, Name: p.Name(), Position: p.Position, Team: p.Team})
	}
	proj := make([]reconcile.Candidate, 0, len(projections))
	for _, p := range projections {
		proj = append(proj, reconcile.Candidate{ID: p.ID, Name: p.Name, Position: p.Position, Team: p.Team})
	}
	return reconcile.Build(provider, proj), nil
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}
