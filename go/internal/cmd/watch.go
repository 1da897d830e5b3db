package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/draftpilot/go/internal/draft/archive"
	"github.com/mcdev12/draftpilot/go/internal/draft/events"
	"github.com/mcdev12/draftpilot/go/internal/draft/gateway"
	"github.com/mcdev12/draftpilot/go/internal/draft/manager"
	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
)

var (
	watchDraftID  string
	watchLeagueID string
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Track a live draft and serve state, recommendations and a WebSocket feed",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDraftID, "draft", "", "draft id (overrides draft.id)")
	watchCmd.Flags().StringVar(&watchLeagueID, "league", "", "league id used to discover the draft when no draft id is set")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (overrides draft.poll_interval)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := setupServices(ctx, cfg, serviceNeeds{})
	if err != nil {
		return err
	}
	defer services.Close()

	draftID := watchDraftID
	if draftID == "" {
		draftID = cfg.Draft.ID
	}
	draftID, err = resolveDraftID(ctx, services, draftID, watchLeagueID)
	if err != nil {
		return err
	}

	mgr := services.newManager(draftID, cfg.Draft)
	st, err := mgr.Initialize(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Str("draft_id", draftID).
		Str("league", st.Settings.LeagueName).
		Int("teams", st.Settings.TotalTeams).
		Int("rounds", st.Settings.TotalRounds).
		Int("picks_made", len(st.Picks)).
		Msg("draft initialized")

	gwConfig := gateway.DefaultConfig()
	gwConfig.Engine = services.Engine
	gwConfig.Projections = services.Projections
	gwConfig.UseJetStream = cfg.NATS.Enabled()
	gwConfig.JetStreamConfig.URL = cfg.NATS.URL

	// With NATS the stream is published first so the gateway consumer can
	// find it.
	var (
		publisher *events.JetStreamPublisher
		counters  = events.NewCounters()
	)
	if cfg.NATS.Enabled() {
		pubConfig := events.DefaultJetStreamConfig()
		pubConfig.URL = cfg.NATS.URL
		publisher, err = events.NewJetStreamPublisher(ctx, pubConfig)
		if err != nil {
			return err
		}
		defer func() {
			for typ, c := range counters.Snapshot() {
				log.Info().
					Str("event_type", typ).
					Int("published", c.Published).
					Int("failed", c.Failed).
					Msg("event publish totals")
			}
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close event publisher")
			}
		}()
	}

	gw, err := gateway.NewService(ctx, gwConfig, mgr)
	if err != nil {
		return err
	}

	var pub events.Publisher
	if publisher != nil {
		pub = events.NewMetricPublisher(publisher, counters)
	}
	wireCallbacks(ctx, mgr, st, gw, pub, services.Archive)

	go func() {
		if err := gw.Start(ctx); err != nil {
			log.Error().Err(err).Msg("draft gateway failed")
		}
	}()

	server := setupServer(cfg.Server.Port, gw)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("draft API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	interval := cfg.Draft.PollInterval
	if watchInterval > 0 {
		interval = watchInterval
	}
	if !st.IsComplete() {
		if err := mgr.StartMonitoring(interval); err != nil {
			return err
		}
	} else {
		log.Info().Str("draft_id", draftID).Msg("draft already complete, serving final state")
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := mgr.StopMonitoring(); err != nil {
		log.Error().Err(err).Msg("failed to stop monitoring")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	return nil
}

// wireCallbacks registers everything that reacts to applied picks.
func wireCallbacks(ctx context.Context, mgr *manager.Manager, st *state.DraftState, gw *gateway.Service, pub events.Publisher, store *archive.Archive) {
	mgr.OnPick(logPick)

	if store != nil {
		recorder := archive.NewRecorder(store, mgr.DraftID())
		if err := recorder.Start(ctx, st); err != nil {
			log.Error().Err(err).Msg("failed to archive draft, picks will not be recorded")
		} else {
			mgr.OnPick(recorder.HandlePick)
		}
	}

	if pub != nil {
		relay := events.NewRelay(pub, st.Settings, nil)
		mgr.OnPick(relay.HandlePick)
		mgr.OnStateChange(relay.HandleState)
	} else {
		mgr.OnPick(gw.PickMade)
		mgr.OnStateChange(gw.StateChanged)
	}
	mgr.SetUIRefresh(gw.Refresh)
}

func logPick(p models.DraftPick) {
	log.Info().
		Int("pick_no", p.PickNumber).
		Int("round", p.Round).
		Str("player", p.PlayerName).
		Str("position", p.Position).
		Str("team", p.Team).
		Int("roster_id", p.RosterID).
		Msg("pick made")
}
