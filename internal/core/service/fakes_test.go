package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/classmeet/server/internal/core/domain"
)

// fakeEngine is an in-memory stand-in for the media engine. Ids are
// sequential and every call is recorded.
type fakeEngine struct {
	mu  sync.Mutex
	seq int

	canConsumeResult   bool
	createTransportErr error
	consumeErr         error

	transports       map[string]bool
	producers        map[string]bool
	consumers        map[string]string // consumer id -> producer id
	resumeCalls      map[string]int
	closedTransports []string
	closedProducers  []string
	closedConsumers  []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		canConsumeResult: true,
		transports:       make(map[string]bool),
		producers:        make(map[string]bool),
		consumers:        make(map[string]string),
		resumeCalls:      make(map[string]int),
	}
}

func (e *fakeEngine) nextID(prefix string) string {
	e.seq++
	return fmt.Sprintf("%s-%d", prefix, e.seq)
}

func (e *fakeEngine) Capabilities() json.RawMessage {
	return json.RawMessage(`{"codecs":["opus","VP8"]}`)
}

func (e *fakeEngine) CreateTransport(ctx context.Context) (domain.TransportInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.createTransportErr != nil {
		return domain.TransportInfo{}, e.createTransportErr
	}
	id := e.nextID("transport")
	e.transports[id] = true
	return domain.TransportInfo{
		ID:             id,
		IceParameters:  json.RawMessage(`{}`),
		IceCandidates:  json.RawMessage(`[]`),
		DtlsParameters: json.RawMessage(`{}`),
	}, nil
}

func (e *fakeEngine) ConnectTransport(ctx context.Context, transportID string, dtlsParameters json.RawMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.transports[transportID] {
		return fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}
	return nil
}

func (e *fakeEngine) Produce(ctx context.Context, transportID string, kind domain.MediaKind, rtpParameters json.RawMessage, appTag string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.transports[transportID] {
		return "", fmt.Errorf("%w: transport %s", domain.ErrNotFound, transportID)
	}
	id := e.nextID("producer")
	e.producers[id] = true
	return id, nil
}

func (e *fakeEngine) CanConsume(producerID string, rtpCapabilities json.RawMessage) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canConsumeResult
}

func (e *fakeEngine) Consume(ctx context.Context, transportID, producerID string, rtpCapabilities json.RawMessage) (domain.ConsumerInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.consumeErr != nil {
		return domain.ConsumerInfo{}, e.consumeErr
	}
	if !e.producers[producerID] {
		return domain.ConsumerInfo{}, fmt.Errorf("%w: producer %s", domain.ErrNotFound, producerID)
	}
	id := e.nextID("consumer")
	e.consumers[id] = producerID
	return domain.ConsumerInfo{
		ID:            id,
		ProducerID:    producerID,
		Kind:          domain.MediaKindVideo,
		RtpParameters: json.RawMessage(`{}`),
	}, nil
}

func (e *fakeEngine) ResumeConsumer(ctx context.Context, consumerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.consumers[consumerID]; !ok {
		return fmt.Errorf("%w: consumer %s", domain.ErrNotFound, consumerID)
	}
	e.resumeCalls[consumerID]++
	return nil
}

func (e *fakeEngine) CloseConsumer(ctx context.Context, consumerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.consumers, consumerID)
	e.closedConsumers = append(e.closedConsumers, consumerID)
	return nil
}

func (e *fakeEngine) CloseProducer(ctx context.Context, producerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.producers, producerID)
	e.closedProducers = append(e.closedProducers, producerID)
	return nil
}

func (e *fakeEngine) CloseTransport(ctx context.Context, transportID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.transports, transportID)
	e.closedTransports = append(e.closedTransports, transportID)
	return nil
}

func (e *fakeEngine) consumerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.consumers)
}

type recordedEvent struct {
	Name string
	Data any
}

// fakeClient records every event pushed to it.
type fakeClient struct {
	id domain.ConnectionID

	mu     sync.Mutex
	events []recordedEvent
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: domain.ConnectionID(id)}
}

func (c *fakeClient) ID() domain.ConnectionID {
	return c.id
}

func (c *fakeClient) Notify(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, recordedEvent{Name: event, Data: data})
	return nil
}

func (c *fakeClient) Close() error {
	return nil
}

func (c *fakeClient) eventsNamed(name string) []recordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []recordedEvent
	for _, e := range c.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
