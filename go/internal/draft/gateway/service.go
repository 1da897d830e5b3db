package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftpilot/go/internal/draft/events"
	"github.com/mcdev12/draftpilot/go/internal/draft/state"
	"github.com/mcdev12/draftpilot/go/internal/models"
	"github.com/mcdev12/draftpilot/go/internal/projections"
	"github.com/mcdev12/draftpilot/go/internal/vorp"
)

// Service serves the draft API and the WebSocket feed.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	eventConsumer     *EventConsumer
	stateHandler      *StateHandler
	source            DraftSource
	clock             clockwork.Clock
	completedSent     atomic.Bool
}

// Config holds configuration for the draft gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	// UseJetStream feeds WebSocket clients from the event stream instead
	// of the direct PickMade/StateChanged hooks.
	UseJetStream    bool
	JetStreamConfig JetStreamConsumerConfig
	Engine          *vorp.Engine
	Projections     *projections.Snapshot
	Clock           clockwork.Clock
}

// DefaultConfig returns default configuration for the draft gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		JetStreamConfig:  DefaultJetStreamConsumerConfig(),
	}
}

func NewService(ctx context.Context, config Config, source DraftSource) (*Service, error) {
	clock := config.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	connectionManager := NewConnectionManager(config.ConnectionConfig)
	s := &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, source.DraftID()),
		stateHandler:      NewStateHandler(source, config.Engine, config.Projections, clock),
		source:            source,
		clock:             clock,
	}

	if config.UseJetStream {
		jsConfig := config.JetStreamConfig
		if jsConfig.SubjectFilter == "" || jsConfig.SubjectFilter == DefaultJetStreamConsumerConfig().SubjectFilter {
			jsConfig.SubjectFilter = fmt.Sprintf("%s.%s.>", events.DefaultJetStreamConfig().SubjectPrefix, source.DraftID())
		}
		consumer, err := NewEventConsumer(ctx, connectionManager, jsConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create event consumer: %w", err)
		}
		s.eventConsumer = consumer
	}
	return s, nil
}

// Start runs the connection manager, and the event consumer when
// configured, until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Str("draft_id", s.source.DraftID()).Msg("starting draft gateway service")

	go s.connectionManager.Start(ctx)

	if s.eventConsumer != nil {
		go func() {
			if err := s.eventConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer failed")
			}
		}()
	}

	<-ctx.Done()

	log.Info().Msg("draft gateway service shutting down")
	return s.Stop()
}

func (s *Service) Stop() error {
	if s.eventConsumer != nil {
		if err := s.eventConsumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
	}
	log.Info().Msg("draft gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket and API routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	log.Info().Msg("draft gateway routes registered")
}

func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.Stats()
}

// PickMade broadcasts one applied pick. Register it with the manager's
// OnPick when the gateway is not fed from JetStream.
func (s *Service) PickMade(p models.DraftPick) {
	snap := s.source.Snapshot()
	if snap == nil {
		return
	}
	s.broadcast(EventTypePickMade, events.PickMade(snap.Settings, p))
}

// StateChanged broadcasts the new draft state, and completion once.
func (s *Service) StateChanged(st *state.DraftState) {
	s.broadcast(EventTypeDraftStateChanged, events.StateChanged(st))
	if st.IsComplete() && s.completedSent.CompareAndSwap(false, true) {
		s.broadcast(EventTypeDraftCompleted, events.Completed(st, s.clock.Now()))
	}
}

// Refresh asks every client to re-fetch.
func (s *Service) Refresh() {
	payload := events.DraftStateChangedPayload{DraftID: s.source.DraftID()}
	if snap := s.source.Snapshot(); snap != nil {
		payload = events.StateChanged(snap)
	}
	s.broadcast(EventTypeRefresh, payload)
}

func (s *Service) broadcast(typ EventType, payload any) {
	draftID := s.source.DraftID()
	event, err := newDraftEvent(draftID, typ, payload, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID).Msg("failed to build draft event")
		return
	}
	s.connectionManager.BroadcastToDraft(draftID, event)
}
