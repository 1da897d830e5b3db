package players

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/clients/sleeper_client"
)

const DefaultTTL = 24 * time.Hour

// Fetcher downloads the provider player directory.
type Fetcher interface {
	GetPlayers(ctx context.Context, sport string) (map[string]sleeper_client.Player, error)
}

// Directory caches the provider player directory. The payload is large and
// changes slowly, so it is refreshed at most once per TTL.
type Directory struct {
	fetcher Fetcher
	sport   string
	ttl     time.Duration
	clock   clockwork.Clock

	mu        sync.RWMutex
	players   map[string]sleeper_client.Player
	fetchedAt time.Time
}

type Option func(*Directory)

func WithTTL(ttl time.Duration) Option {
	return func(d *Directory) { d.ttl = ttl }
}

func WithClock(clock clockwork.Clock) Option {
	return func(d *Directory) { d.clock = clock }
}

func WithSport(sport string) Option {
	return func(d *Directory) { d.sport = sport }
}

func NewDirectory(fetcher Fetcher, opts ...Option) *Directory {
	d := &Directory{
		fetcher: fetcher,
		sport:   "nfl",
		ttl:     DefaultTTL,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Players returns the whole directory, refreshing it when stale or forced.
func (d *Directory) Players(ctx context.Context, forceRefresh bool) (map[string]sleeper_client.Player, error) {
	d.mu.RLock()
	fresh := d.players != nil && d.clock.Since(d.fetchedAt) <= d.ttl
	players := d.players
	d.mu.RUnlock()

	if fresh && !forceRefresh {
		return players, nil
	}

	log.Info().Str("sport", d.sport).Msg("refreshing player directory")
	fetched, err := d.fetcher.GetPlayers(ctx, d.sport)
	if err != nil {
		if players != nil {
			log.Warn().Err(err).Msg("player directory refresh failed, serving stale copy")
			return players, nil
		}
		return nil, fmt.Errorf("load player directory: %w", err)
	}

	d.mu.Lock()
	d.players = fetched
	d.fetchedAt = d.clock.Now()
	d.mu.Unlock()

	log.Info().Int("players", len(fetched)).Msg("cached player directory")
	return fetched, nil
}

// Player looks up a single player by provider id.
func (d *Directory) Player(ctx context.Context, id string) (sleeper_client.Player, bool) {
	players, err := d.Players(ctx, false)
	if err != nil {
		return sleeper_client.Player{}, false
	}
	p, ok := players[id]
	return p, ok
}

// Search returns players whose name contains name (case-insensitive),
// optionally restricted to position. Results are ordered by id.
func (d *Directory) Search(ctx context.Context, name, position string) ([]sleeper_client.Player, error) {
	players, err := d.Players(ctx, false)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))

	var out []sleeper_client.Player
	for _, p := range players {
		if position != "" && p.Position != position {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

// FetchedAt is when the directory was last loaded; zero if never.
func (d *Directory) FetchedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fetchedAt
}
