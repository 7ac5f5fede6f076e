package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/classmeet/server/internal/core/domain"
	"github.com/classmeet/server/internal/core/port"
	"github.com/classmeet/server/internal/metrics"
)

// Event names pushed to clients.
const (
	EventNewProducer       = "newProducer"
	EventProducerClosed    = "producerClosed"
	EventParticipants      = "participantsUpdated"
	EventChatMessage       = "chatMessage"
	EventScreenShareStatus = "screenShareStatus"
)

// NewProducerEvent announces a producer to the other peers in the room.
type NewProducerEvent struct {
	ProducerID        string              `json:"producerId"`
	OwnerConnectionID domain.ConnectionID `json:"ownerConnectionId"`
	Kind              domain.MediaKind    `json:"kind"`
	AppTag            string              `json:"appTag,omitempty"`
}

type ProducerClosedEvent struct {
	ProducerID string `json:"producerId"`
}

type ParticipantsEvent struct {
	Participants []domain.Participant `json:"participants"`
}

type ScreenShareStatusEvent struct {
	ConnectionID domain.ConnectionID `json:"connectionId"`
	Sharing      bool                `json:"sharing"`
	ProducerID   string              `json:"producerId,omitempty"`
}

// ConsumeResult is the reply to a consume request: the engine's consumer
// parameters plus the producer's owner so the client can label the stream.
type ConsumeResult struct {
	domain.ConsumerInfo
	OwnerConnectionID domain.ConnectionID `json:"ownerConnectionId"`
	AppTag            string              `json:"appTag,omitempty"`
}

// Signaling owns the shared pieces every connection's dispatcher needs.
type Signaling struct {
	rooms  *RoomRegistry
	engine port.MediaEngine
}

func NewSignaling(rooms *RoomRegistry, engine port.MediaEngine) *Signaling {
	return &Signaling{
		rooms:  rooms,
		engine: engine,
	}
}

// NewSession creates the dispatcher for one connection. All methods of the
// returned Session are called from that connection's read loop, one message
// at a time; only broadcasts touch other peers' state.
func (s *Signaling) NewSession(client port.Client) *Session {
	return &Session{
		sig:    s,
		client: client,
		log:    log.With().Str("connection_id", client.ID().String()).Logger(),
	}
}

// Session is the per-connection signaling dispatcher.
type Session struct {
	sig    *Signaling
	client port.Client
	log    zerolog.Logger

	room *domain.Room
	peer *domain.PeerSession
}

// Join registers (or re-registers) the peer in the target room, sets the
// display name when provided and broadcasts the roster to every peer in the
// room, including the joiner. Returns the router capability descriptor.
// Joining an unknown room id creates the room.
func (s *Session) Join(ctx context.Context, roomID domain.RoomID, displayName string) (json.RawMessage, error) {
	if s.room != nil {
		if s.room.ID != roomID {
			return nil, fmt.Errorf("%w: already joined room %s", domain.ErrPermissionDenied, s.room.ID)
		}
		// Rejoin of the same room only updates the name.
		s.peer.SetDisplayName(displayName)
		s.broadcastRoster()
		return s.sig.engine.Capabilities(), nil
	}

	peer := domain.NewPeerSession(s.client.ID(), s.client)
	peer.SetDisplayName(displayName)

	s.room = s.sig.rooms.Join(roomID, peer)
	s.peer = peer
	s.log = s.log.With().Str("room_id", roomID.String()).Logger()
	s.log.Info().Str("display_name", peer.DisplayName()).Msg("Peer joined room")
	metrics.ConnectedPeers.Inc()

	s.broadcastRoster()
	return s.sig.engine.Capabilities(), nil
}

// Capabilities is a pure read of the router descriptor. Valid before join:
// the router is a process-wide singleton and the descriptor is immutable.
func (s *Session) Capabilities() json.RawMessage {
	return s.sig.engine.Capabilities()
}

// CreateTransport allocates a transport at the engine and records it under
// this peer. The direction hint is advisory only.
func (s *Session) CreateTransport(ctx context.Context, hint domain.TransportDirection) (domain.TransportInfo, error) {
	if err := s.requireJoined(); err != nil {
		return domain.TransportInfo{}, err
	}

	info, err := s.sig.engine.CreateTransport(ctx)
	if err != nil {
		return domain.TransportInfo{}, err
	}

	s.peer.AddTransport(info.ID, hint)
	s.log.Debug().Str("transport_id", info.ID).Str("direction", string(hint)).Msg("Transport created")
	return info, nil
}

// ConnectTransport completes the DTLS handshake for a transport this peer
// owns. Connecting another peer's transport is a permission error.
func (s *Session) ConnectTransport(ctx context.Context, transportID string, dtlsParameters json.RawMessage) error {
	if err := s.requireJoined(); err != nil {
		return err
	}
	if !s.peer.OwnsTransport(transportID) {
		return fmt.Errorf("%w: transport %s", domain.ErrPermissionDenied, transportID)
	}
	return s.sig.engine.ConnectTransport(ctx, transportID, dtlsParameters)
}

// Produce creates a producer on one of the caller's transports, registers it
// in the peer session and then in the room, and announces it to every other
// peer. The caller only gets the producer id back.
func (s *Session) Produce(ctx context.Context, transportID string, kind domain.MediaKind, rtpParameters json.RawMessage, appTag string) (string, error) {
	if err := s.requireJoined(); err != nil {
		return "", err
	}
	if !s.peer.OwnsTransport(transportID) {
		return "", fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}

	producerID, err := s.sig.engine.Produce(ctx, transportID, kind, rtpParameters, appTag)
	if err != nil {
		return "", err
	}

	producer := &domain.Producer{
		ID:     producerID,
		Owner:  s.peer.ConnectionID,
		Kind:   kind,
		AppTag: appTag,
	}
	// Session first, room second: cleanup walks the session set, so the
	// handle must be findable there even if the room registration is never
	// reached.
	s.peer.AddProducer(producer)
	s.room.AddProducer(producer)
	metrics.ProducersCreated.Inc()

	s.log.Info().
		Str("producer_id", producerID).
		Str("kind", string(kind)).
		Str("app_tag", appTag).
		Msg("Producer created")

	s.broadcastExceptSelf(EventNewProducer, NewProducerEvent{
		ProducerID:        producerID,
		OwnerConnectionID: s.peer.ConnectionID,
		Kind:              kind,
		AppTag:            appTag,
	})
	return producerID, nil
}

// Consume creates a paused consumer on one of the caller's transports, bound
// to a still-open producer of the room.
func (s *Session) Consume(ctx context.Context, transportID, producerID string, rtpCapabilities json.RawMessage) (ConsumeResult, error) {
	if err := s.requireJoined(); err != nil {
		return ConsumeResult{}, err
	}
	if !s.peer.OwnsTransport(transportID) {
		return ConsumeResult{}, fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}

	producer, ok := s.room.FindProducer(producerID)
	if !ok {
		return ConsumeResult{}, fmt.Errorf("%w: producer %s", domain.ErrNotFound, producerID)
	}
	if !s.sig.engine.CanConsume(producerID, rtpCapabilities) {
		return ConsumeResult{}, fmt.Errorf("%w: producer %s", domain.ErrIncompatible, producerID)
	}

	info, err := s.sig.engine.Consume(ctx, transportID, producerID, rtpCapabilities)
	if err != nil {
		return ConsumeResult{}, err
	}

	// The producer may have been closed while the engine call was in
	// flight (the room lock is not held across it). Re-check before
	// registering; a consumer bound to a dead producer must not survive.
	if _, stillOpen := s.room.FindProducer(producerID); !stillOpen {
		if cerr := s.sig.engine.CloseConsumer(ctx, info.ID); cerr != nil {
			s.log.Warn().Err(cerr).Str("consumer_id", info.ID).Msg("Failed to discard orphaned consumer")
		}
		return ConsumeResult{}, fmt.Errorf("%w: producer %s", domain.ErrNotFound, producerID)
	}

	s.peer.AddConsumer(info.ID)
	s.log.Debug().
		Str("consumer_id", info.ID).
		Str("producer_id", producerID).
		Msg("Consumer created (paused)")

	return ConsumeResult{
		ConsumerInfo:      info,
		OwnerConnectionID: producer.Owner,
		AppTag:            producer.AppTag,
	}, nil
}

// ResumeConsumer unpauses a consumer this peer owns. Resuming twice is a
// no-op at the engine.
func (s *Session) ResumeConsumer(ctx context.Context, consumerID string) error {
	if err := s.requireJoined(); err != nil {
		return err
	}
	if !s.peer.OwnsConsumer(consumerID) {
		return fmt.Errorf("%w: consumer %s", domain.ErrNotFound, consumerID)
	}
	return s.sig.engine.ResumeConsumer(ctx, consumerID)
}

// CloseProducer closes one of the caller's own producers and notifies the
// other peers. Recipients close their own consumers in reaction; the engine
// cascade tears down the server side.
func (s *Session) CloseProducer(ctx context.Context, producerID string) error {
	if err := s.requireJoined(); err != nil {
		return err
	}
	if !s.peer.OwnsProducer(producerID) {
		if _, exists := s.room.FindProducer(producerID); exists {
			return fmt.Errorf("%w: producer %s", domain.ErrPermissionDenied, producerID)
		}
		return fmt.Errorf("%w: producer %s", domain.ErrNotFound, producerID)
	}

	if err := s.sig.engine.CloseProducer(ctx, producerID); err != nil {
		// The handle still goes away; a stuck engine close must not leave
		// the producer listed in the room.
		s.log.Warn().Err(err).Str("producer_id", producerID).Msg("Engine close failed")
	}

	// Unregister in reverse registration order: room first, session second.
	s.room.RemoveProducer(producerID)
	s.peer.RemoveProducer(producerID)
	s.log.Info().Str("producer_id", producerID).Msg("Producer closed")

	s.broadcastExceptSelf(EventProducerClosed, ProducerClosedEvent{ProducerID: producerID})
	return nil
}

// Chat relays a chat line to every other peer with a server timestamp.
// Nothing is stored.
func (s *Session) Chat(ctx context.Context, text string) error {
	if err := s.requireJoined(); err != nil {
		return err
	}
	msg, err := domain.NewChatMessage(s.peer.ConnectionID, s.peer.DisplayName(), text)
	if err != nil {
		return err
	}
	s.broadcastExceptSelf(EventChatMessage, msg)
	return nil
}

// ScreenShare relays the sharing status to the other peers. The screen track
// itself travels through Produce with the screen app tag.
func (s *Session) ScreenShare(ctx context.Context, sharing bool, producerID string) error {
	if err := s.requireJoined(); err != nil {
		return err
	}
	s.broadcastExceptSelf(EventScreenShareStatus, ScreenShareStatusEvent{
		ConnectionID: s.peer.ConnectionID,
		Sharing:      sharing,
		ProducerID:   producerID,
	})
	return nil
}

// Disconnect tears the session down after the underlying connection is gone.
// Every step is best effort: a stuck transport must not prevent the room
// bookkeeping from completing.
func (s *Session) Disconnect(ctx context.Context) {
	if s.room == nil {
		return
	}

	for _, transportID := range s.peer.TransportIDs() {
		if err := s.sig.engine.CloseTransport(ctx, transportID); err != nil {
			s.log.Warn().Err(err).Str("transport_id", transportID).Msg("Failed to close transport")
		}
	}

	owned := s.peer.OwnedProducers()
	s.peer.Reset()

	for _, producer := range owned {
		s.room.RemoveProducer(producer.ID)
		s.broadcastExceptSelf(EventProducerClosed, ProducerClosedEvent{ProducerID: producer.ID})
	}

	room, deleted := s.sig.rooms.Leave(s.room.ID, s.peer.ConnectionID)
	metrics.ConnectedPeers.Dec()
	if room != nil && !deleted {
		s.broadcastRoster()
	}

	s.log.Info().Msg("Peer left room")
	s.room = nil
	s.peer = nil
}

func (s *Session) requireJoined() error {
	if s.room == nil {
		return fmt.Errorf("%w: not joined to a room", domain.ErrNotFound)
	}
	return nil
}

// broadcastRoster goes to every peer in the room, including the sender.
func (s *Session) broadcastRoster() {
	event := ParticipantsEvent{Participants: s.room.Participants()}
	for _, peer := range s.room.Peers() {
		s.notify(peer, EventParticipants, event)
	}
}

// broadcastExceptSelf delivers inline in the caller's goroutine so a peer's
// successive events reach each recipient in operation order.
func (s *Session) broadcastExceptSelf(event string, data any) {
	for _, peer := range s.room.Peers() {
		if peer.ConnectionID == s.peer.ConnectionID {
			continue
		}
		s.notify(peer, event, data)
	}
}

func (s *Session) notify(peer *domain.PeerSession, event string, data any) {
	if err := peer.Client.Notify(event, data); err != nil {
		s.log.Warn().Err(err).
			Str("peer_id", peer.ConnectionID.String()).
			Str("event", event).
			Msg("Failed to notify peer")
	}
}
