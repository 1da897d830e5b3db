package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/clients/sleeper_client"
	"github.com/mcdev12/draftpilot/go/internal/config"
	"github.com/mcdev12/draftpilot/go/internal/draft/archive"
	"github.com/mcdev12/draftpilot/go/internal/draft/manager"
	"github.com/mcdev12/draftpilot/go/internal/players"
	"github.com/mcdev12/draftpilot/go/internal/projections"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

// Services holds everything a command needs, wired from config.
type Services struct {
	Client      *sleeper_client.SleeperClient
	Directory   *players.Directory
	Projections *projections.Snapshot
	Engine      *vorp.Engine
	Archive     *archive.Archive
}

type serviceNeeds struct {
	projections bool
	archive     bool
}

func setupServices(ctx context.Context, cfg config.Config, needs serviceNeeds) (*Services, error) {
	// Provider client → player directory → projections → engine → archive
	client := sleeper_client.NewSleeperClient(sleeper_client.Options{
		BaseURL:         cfg.Sleeper.BaseURL,
		Timeout:         cfg.Sleeper.Timeout,
		RateLimitPerSec: cfg.Sleeper.RateLimitPerSec,
		Burst:           cfg.Sleeper.Burst,
	})

	s := &Services{
		Client:    client,
		Directory: players.NewDirectory(client, players.WithTTL(cfg.Players.TTL), players.WithSport(cfg.Players.Sport)),
		Engine:    vorp.NewEngine(),
	}

	switch {
	case cfg.Projections.Path != "":
		snap, err := projections.Load(cfg.Projections.Path)
		if err != nil {
			return nil, err
		}
		s.Projections = snap
		log.Info().
			Str("path", cfg.Projections.Path).
			Int("players", len(snap.Players)).
			Int("adp", len(snap.ADP)).
			Msg("loaded projections")
	case needs.projections:
		return nil, fmt.Errorf("projections.path (or PROJECTIONS_PATH) is required")
	default:
		log.Warn().Msg("no projections configured, recommendations are disabled")
	}

	switch {
	case cfg.Database.Enabled():
		a, err := setupArchive(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		s.Archive = a
	case needs.archive:
		return nil, fmt.Errorf("database.host (or DB_HOST) is required")
	}

	return s, nil
}

func (s *Services) Close() {
	if s.Archive != nil {
		s.Archive.Close()
	}
}

func (s *Services) newManager(draftID string, dc config.DraftConfig) *manager.Manager {
	opts := []manager.Option{
		manager.WithPlayerDirectory(s.Directory),
		manager.WithStopTimeout(dc.StopTimeout),
		manager.WithFailureBudget(dc.FailureBudget),
		manager.WithMaxBackoff(dc.MaxBackoff),
	}
	if s.Projections != nil {
		opts = append(opts, manager.WithProjections(s.Projections.Players))
	}
	return manager.New(draftID, s.Client, opts...)
}

// resolveDraftID prefers an explicit draft id and otherwise discovers one
// from the league.
func resolveDraftID(ctx context.Context, s *Services, draftID, leagueID string) (string, error) {
	if draftID != "" {
		return draftID, nil
	}
	if leagueID == "" {
		return "", fmt.Errorf("a draft id (draft.id, DRAFT_ID or --draft) or --league is required")
	}
	return manager.DiscoverDraft(ctx, s.Client, leagueID)
}
