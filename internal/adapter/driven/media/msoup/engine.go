// Package msoup binds the signaling core to a mediasoup worker/router pair.
package msoup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jiyeyuran/mediasoup-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/classmeet/server/internal/core/domain"
)

// Config carries the transport listening knobs and the worker's RTC port
// range. The worker binary itself is resolved by the library
// (MEDIASOUP_WORKER_BIN).
type Config struct {
	ListenIP         string
	AnnouncedAddress string
	RtcMinPort       uint16
	RtcMaxPort       uint16
}

type producerEntry struct {
	producer    *mediasoup.Producer
	transportID string
}

type consumerEntry struct {
	consumer    *mediasoup.Consumer
	transportID string
	producerID  string
	resumed     bool
}

// Engine implements port.MediaEngine over one process-wide worker and
// router. All media state lives in mediasoup; the maps here only resolve the
// opaque ids the dispatcher hands back and forth.
type Engine struct {
	cfg    Config
	worker *mediasoup.Worker
	router *mediasoup.Router
	caps   json.RawMessage

	mu         sync.Mutex
	transports map[string]*mediasoup.Transport
	producers  map[string]*producerEntry
	consumers  map[string]*consumerEntry
}

// Codec table of the original deployment: Opus, VP8 and baseline H264.
func mediaCodecs() []*mediasoup.RtpCodecCapability {
	return []*mediasoup.RtpCodecCapability{
		{
			Kind:      mediasoup.MediaKindAudio,
			MimeType:  "audio/opus",
			ClockRate: 48000,
			Channels:  2,
		},
		{
			Kind:      mediasoup.MediaKindVideo,
			MimeType:  "video/VP8",
			ClockRate: 90000,
			Parameters: mediasoup.RtpCodecSpecificParameters{
				XGoogleStartBitrate: 1000,
			},
		},
		{
			Kind:      mediasoup.MediaKindVideo,
			MimeType:  "video/H264",
			ClockRate: 90000,
			Parameters: mediasoup.RtpCodecSpecificParameters{
				PacketizationMode:     1,
				ProfileLevelId:        "4d0032",
				LevelAsymmetryAllowed: 1,
			},
		},
	}
}

func New(cfg Config) (*Engine, error) {
	worker, err := mediasoup.NewWorker(os.Getenv("MEDIASOUP_WORKER_BIN"))
	if err != nil {
		return nil, fmt.Errorf("create mediasoup worker: %w", err)
	}

	// A dead worker cannot route anything; keeping the server up would just
	// fail every request. Exit and let the supervisor restart us.
	worker.OnClose(func(ctx context.Context) {
		if err := worker.Err(); err != nil {
			log.Fatal().Err(err).Msg("Mediasoup worker died, exiting...")
		}
	})

	router, err := worker.CreateRouter(&mediasoup.RouterOptions{
		MediaCodecs: mediaCodecs(),
	})
	if err != nil {
		worker.Close()
		return nil, fmt.Errorf("create router: %w", err)
	}

	caps, err := json.Marshal(router.RtpCapabilities())
	if err != nil {
		worker.Close()
		return nil, fmt.Errorf("marshal router capabilities: %w", err)
	}

	log.Info().Msg("Mediasoup worker and router ready")

	return &Engine{
		cfg:        cfg,
		worker:     worker,
		router:     router,
		caps:       caps,
		transports: make(map[string]*mediasoup.Transport),
		producers:  make(map[string]*producerEntry),
		consumers:  make(map[string]*consumerEntry),
	}, nil
}

// Close shuts the worker down. Used on server shutdown only.
func (e *Engine) Close() {
	e.router.Close()
	e.worker.Close()
}

func (e *Engine) Capabilities() json.RawMessage {
	return e.caps
}

func (e *Engine) CreateTransport(ctx context.Context) (domain.TransportInfo, error) {
	enableUdp := true
	transport, err := e.router.CreateWebRtcTransport(&mediasoup.WebRtcTransportOptions{
		ListenInfos: []mediasoup.TransportListenInfo{
			{
				Protocol:         mediasoup.TransportProtocolUDP,
				Ip:               e.cfg.ListenIP,
				AnnouncedAddress: e.cfg.AnnouncedAddress,
				PortRange:        mediasoup.TransportPortRange{Min: e.cfg.RtcMinPort, Max: e.cfg.RtcMaxPort},
			},
			{
				Protocol:         mediasoup.TransportProtocolTCP,
				Ip:               e.cfg.ListenIP,
				AnnouncedAddress: e.cfg.AnnouncedAddress,
				PortRange:        mediasoup.TransportPortRange{Min: e.cfg.RtcMinPort, Max: e.cfg.RtcMaxPort},
			},
		},
		EnableUdp:                       &enableUdp,
		EnableTcp:                       true,
		PreferUdp:                       true,
		InitialAvailableOutgoingBitrate: 1000000,
	})
	if err != nil {
		return domain.TransportInfo{}, &domain.EngineError{Op: "create transport", Err: err}
	}

	data := transport.Data().WebRtcTransportData

	info := domain.TransportInfo{ID: transport.Id()}
	if info.IceParameters, err = json.Marshal(data.IceParameters); err != nil {
		transport.Close()
		return domain.TransportInfo{}, &domain.EngineError{Op: "marshal ice parameters", Err: err}
	}
	if info.IceCandidates, err = json.Marshal(data.IceCandidates); err != nil {
		transport.Close()
		return domain.TransportInfo{}, &domain.EngineError{Op: "marshal ice candidates", Err: err}
	}
	if info.DtlsParameters, err = json.Marshal(data.DtlsParameters); err != nil {
		transport.Close()
		return domain.TransportInfo{}, &domain.EngineError{Op: "marshal dtls parameters", Err: err}
	}

	e.mu.Lock()
	e.transports[info.ID] = transport
	e.mu.Unlock()

	return info, nil
}

func (e *Engine) ConnectTransport(ctx context.Context, transportID string, dtlsParameters json.RawMessage) error {
	transport, ok := e.transport(transportID)
	if !ok {
		return fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}

	var dtls mediasoup.DtlsParameters
	if err := json.Unmarshal(dtlsParameters, &dtls); err != nil {
		return &domain.EngineError{Op: "decode dtls parameters", Err: err}
	}
	if err := transport.ConnectContext(ctx, &mediasoup.TransportConnectOptions{
		DtlsParameters: &dtls,
	}); err != nil {
		return &domain.EngineError{Op: "connect transport", Err: err}
	}
	return nil
}

func (e *Engine) Produce(ctx context.Context, transportID string, kind domain.MediaKind, rtpParameters json.RawMessage, appTag string) (string, error) {
	transport, ok := e.transport(transportID)
	if !ok {
		return "", fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}

	var rtp mediasoup.RtpParameters
	if err := json.Unmarshal(rtpParameters, &rtp); err != nil {
		return "", &domain.EngineError{Op: "decode rtp parameters", Err: err}
	}

	appData := mediasoup.H{}
	if appTag != "" {
		appData["mediaType"] = appTag
	}

	producer, err := transport.ProduceContext(ctx, &mediasoup.ProducerOptions{
		Kind:          mediasoup.MediaKind(kind),
		RtpParameters: &rtp,
		AppData:       appData,
	})
	if err != nil {
		return "", &domain.EngineError{Op: "produce", Err: err}
	}

	e.mu.Lock()
	e.producers[producer.Id()] = &producerEntry{producer: producer, transportID: transportID}
	e.mu.Unlock()

	return producer.Id(), nil
}

func (e *Engine) CanConsume(producerID string, rtpCapabilities json.RawMessage) bool {
	var caps mediasoup.RtpCapabilities
	if err := json.Unmarshal(rtpCapabilities, &caps); err != nil {
		log.Debug().Err(err).Msg("Undecodable rtp capabilities on canConsume")
		return false
	}
	return e.router.CanConsume(producerID, &caps)
}

func (e *Engine) Consume(ctx context.Context, transportID, producerID string, rtpCapabilities json.RawMessage) (domain.ConsumerInfo, error) {
	transport, ok := e.transport(transportID)
	if !ok {
		return domain.ConsumerInfo{}, fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}
	if _, ok := e.producer(producerID); !ok {
		return domain.ConsumerInfo{}, fmt.Errorf("%w: producer %s", domain.ErrNotFound, producerID)
	}

	var caps mediasoup.RtpCapabilities
	if err := json.Unmarshal(rtpCapabilities, &caps); err != nil {
		return domain.ConsumerInfo{}, &domain.EngineError{Op: "decode rtp capabilities", Err: err}
	}

	// Paused until the client has wired its receive side and asks to resume.
	consumer, err := transport.ConsumeContext(ctx, &mediasoup.ConsumerOptions{
		ProducerId:      producerID,
		RtpCapabilities: &caps,
		Paused:          true,
	})
	if err != nil {
		return domain.ConsumerInfo{}, &domain.EngineError{Op: "consume", Err: err}
	}

	rtpParams, err := json.Marshal(consumer.RtpParameters())
	if err != nil {
		consumer.Close()
		return domain.ConsumerInfo{}, &domain.EngineError{Op: "marshal consumer rtp parameters", Err: err}
	}

	e.mu.Lock()
	e.consumers[consumer.Id()] = &consumerEntry{
		consumer:    consumer,
		transportID: transportID,
		producerID:  producerID,
	}
	e.mu.Unlock()

	return domain.ConsumerInfo{
		ID:            consumer.Id(),
		ProducerID:    producerID,
		Kind:          domain.MediaKind(consumer.Kind()),
		RtpParameters: rtpParams,
	}, nil
}

func (e *Engine) ResumeConsumer(ctx context.Context, consumerID string) error {
	// The check-and-set must be atomic or two in-flight resumes both reach
	// the worker. Resume is a quick channel roundtrip, so the engine call
	// stays inside the critical section.
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.consumers[consumerID]
	if !ok {
		return fmt.Errorf("%w: consumer %s", domain.ErrNotFound, consumerID)
	}
	if entry.resumed {
		return nil
	}
	if err := entry.consumer.ResumeContext(ctx); err != nil {
		return &domain.EngineError{Op: "resume consumer", Err: err}
	}
	entry.resumed = true
	return nil
}

func (e *Engine) CloseConsumer(ctx context.Context, consumerID string) error {
	e.mu.Lock()
	entry, ok := e.consumers[consumerID]
	delete(e.consumers, consumerID)
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: consumer %s", domain.ErrNotFound, consumerID)
	}
	if err := entry.consumer.CloseContext(ctx); err != nil {
		return &domain.EngineError{Op: "close consumer", Err: err}
	}
	return nil
}

func (e *Engine) CloseProducer(ctx context.Context, producerID string) error {
	e.mu.Lock()
	entry, ok := e.producers[producerID]
	delete(e.producers, producerID)
	// Mediasoup closes dependent consumers with the producer; drop their
	// entries so later lookups miss cleanly.
	for id, c := range e.consumers {
		if c.producerID == producerID {
			delete(e.consumers, id)
		}
	}
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: producer %s", domain.ErrNotFound, producerID)
	}
	if err := entry.producer.CloseContext(ctx); err != nil {
		return &domain.EngineError{Op: "close producer", Err: err}
	}
	return nil
}

func (e *Engine) CloseTransport(ctx context.Context, transportID string) error {
	e.mu.Lock()
	transport, ok := e.transports[transportID]
	delete(e.transports, transportID)
	for id, p := range e.producers {
		if p.transportID == transportID {
			delete(e.producers, id)
		}
	}
	for id, c := range e.consumers {
		if c.transportID == transportID {
			delete(e.consumers, id)
		}
	}
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}
	if err := transport.CloseContext(ctx); err != nil {
		return &domain.EngineError{Op: "close transport", Err: err}
	}
	return nil
}

func (e *Engine) transport(id string) (*mediasoup.Transport, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.transports[id]
	return t, ok
}

func (e *Engine) producer(id string) (*producerEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.producers[id]
	return p, ok
}
