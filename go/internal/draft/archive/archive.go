package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/internal/models"
	"github.com/mcdev12/draftpilot/go/internal/sqlutil"
)

// ErrDraftNotArchived is returned when no settings were saved for a draft.
var ErrDraftNotArchived = errors.New("draft not archived")

// Store persists draft settings and picks for offline replay.
type Store interface {
	// SaveDraft stores settings and picks atomically.
	SaveDraft(ctx context.Context, settings models.DraftSettings, picks []models.DraftPick) error
	SaveSettings(ctx context.Context, settings models.DraftSettings) error
	SavePick(ctx context.Context, draftID string, pick models.DraftPick) error
	LoadSettings(ctx context.Context, draftID string) (models.DraftSettings, error)
	ListPicks(ctx context.Context, draftID string) ([]models.DraftPick, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS draft_settings (
	draft_id   TEXT PRIMARY KEY,
	settings   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS draft_picks (
	draft_id    TEXT NOT NULL,
	pick_number INTEGER NOT NULL,
	round       INTEGER NOT NULL,
	draft_slot  INTEGER NOT NULL,
	player_id   TEXT NOT NULL,
	player_name TEXT NOT NULL DEFAULT '',
	position    TEXT NOT NULL DEFAULT '',
	team        TEXT NOT NULL DEFAULT '',
	roster_id   INTEGER NOT NULL DEFAULT 0,
	picked_by   TEXT NOT NULL DEFAULT '',
	picked_at   TIMESTAMPTZ,
	metadata    JSONB,
	PRIMARY KEY (draft_id, pick_number)
);`

const (
	upsertSettingsSQL = `
		INSERT INTO draft_settings (draft_id, settings, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (draft_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = NOW()`

	insertPickSQL = `
		INSERT INTO draft_picks (
			draft_id, pick_number, round, draft_slot, player_id, player_name,
			position, team, roster_id, picked_by, picked_at, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (draft_id, pick_number) DO NOTHING`

	selectSettingsSQL = `SELECT settings FROM draft_settings WHERE draft_id = $1`

	selectPicksSQL = `
		SELECT pick_number, round, draft_slot, player_id, player_name, position,
		       team, roster_id, picked_by, picked_at, metadata
		FROM draft_picks
		WHERE draft_id = $1
		ORDER BY pick_number`
)

// Archive is the Postgres Store.
type Archive struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Archive, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute
	config.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cc := config.ConnConfig
	log.Info().
		Str("host", cc.Host).
		Uint16("port", cc.Port).
		Str("database", cc.Database).
		Msg("connected to pick archive")
	return &Archive{pool: pool}, nil
}

func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// EnsureSchema creates the archive tables if they do not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create archive schema: %w", err)
	}
	return nil
}

func (a *Archive) SaveSettings(ctx context.Context, settings models.DraftSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if _, err := a.pool.Exec(ctx, upsertSettingsSQL, settings.DraftID, data); err != nil {
		return fmt.Errorf("save settings for draft %s: %w", settings.DraftID, err)
	}
	return nil
}

func (a *Archive) SaveDraft(ctx context.Context, settings models.DraftSettings, picks []models.DraftPick) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return sqlutil.Run(ctx, a.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertSettingsSQL, settings.DraftID, data); err != nil {
			return fmt.Errorf("save settings for draft %s: %w", settings.DraftID, err)
		}
		for _, p := range picks {
			args, err := pickArgs(settings.DraftID, p)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, insertPickSQL, args...); err != nil {
				return fmt.Errorf("save pick %d for draft %s: %w", p.PickNumber, settings.DraftID, err)
			}
		}
		return nil
	})
}

// SavePick stores pick. Saving the same pick number twice is a no-op.
func (a *Archive) SavePick(ctx context.Context, draftID string, pick models.DraftPick) error {
	args, err := pickArgs(draftID, pick)
	if err != nil {
		return err
	}
	if _, err := a.pool.Exec(ctx, insertPickSQL, args...); err != nil {
		return fmt.Errorf("save pick %d for draft %s: %w", pick.PickNumber, draftID, err)
	}
	return nil
}

func (a *Archive) LoadSettings(ctx context.Context, draftID string) (models.DraftSettings, error) {
	var data []byte
	err := a.pool.QueryRow(ctx, selectSettingsSQL, draftID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DraftSettings{}, fmt.Errorf("draft %s: %w", draftID, ErrDraftNotArchived)
	}
	if err != nil {
		return models.DraftSettings{}, fmt.Errorf("load settings for draft %s: %w", draftID, err)
	}

	var settings models.DraftSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return models.DraftSettings{}, fmt.Errorf("decode settings for draft %s: %w", draftID, err)
	}
	return settings, nil
}

// ListPicks returns the archived picks for draftID in pick order.
func (a *Archive) ListPicks(ctx context.Context, draftID string) ([]models.DraftPick, error) {
	rows, err := a.pool.Query(ctx, selectPicksSQL, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		var (
			r        pickRow
			pickedAt *time.Time
		)
		if err := rows.Scan(
			&r.PickNumber, &r.Round, &r.DraftSlot, &r.PlayerID, &r.PlayerName, &r.Position,
			&r.Team, &r.RosterID, &r.PickedBy, &pickedAt, &r.Metadata,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pick row: %w", err)
		}
		if pickedAt != nil {
			r.PickedAt = *pickedAt
		}
		p, err := r.toPick()
		if err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pick rows: %w", err)
	}
	return picks, nil
}

// pickRow is the column layout of draft_picks.
type pickRow struct {
	PickNumber int
	Round      int
	DraftSlot  int
	PlayerID   string
	PlayerName string
	Position   string
	Team       string
	RosterID   int
	PickedBy   string
	PickedAt   time.Time
	Metadata   []byte
}

func pickArgs(draftID string, p models.DraftPick) ([]any, error) {
	var meta []byte
	if len(p.Metadata) > 0 {
		var err error
		if meta, err = json.Marshal(p.Metadata); err != nil {
			return nil, fmt.Errorf("marshal pick %d metadata: %w", p.PickNumber, err)
		}
	}
	var pickedAt *time.Time
	if !p.Timestamp.IsZero() {
		ts := p.Timestamp.UTC()
		pickedAt = &ts
	}
	return []any{
		draftID, p.PickNumber, p.Round, p.DraftSlot, p.PlayerID, p.PlayerName,
		p.Position, p.Team, p.RosterID, p.PickedBy, pickedAt, meta,
	}, nil
}

func (r pickRow) toPick() (models.DraftPick, error) {
	p := models.DraftPick{
		PickNumber: r.PickNumber,
		Round:      r.Round,
		DraftSlot:  r.DraftSlot,
		PlayerID:   r.PlayerID,
		PlayerName: r.PlayerName,
		Position:   r.Position,
		Team:       r.Team,
		RosterID:   r.RosterID,
		PickedBy:   r.PickedBy,
		Timestamp:  r.PickedAt,
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &p.Metadata); err != nil {
			return models.DraftPick{}, fmt.Errorf("decode pick %d metadata: %w", r.PickNumber, err)
		}
	}
	return p, nil
}
