package port

import (
	"context"
	"encoding/json"

	"github.com/classmeet/server/internal/core/domain"
)

// MediaEngine is the boundary to the routing engine (worker + router). RTP
// capabilities and parameters are engine-defined JSON relayed between the
// client and the engine; the dispatcher never interprets them.
//
// Closing a transport closes every producer and consumer created on it.
type MediaEngine interface {
	// Capabilities returns the router's RTP capability descriptor.
	// Immutable after startup, safe to call repeatedly.
	Capabilities() json.RawMessage

	CreateTransport(ctx context.Context) (domain.TransportInfo, error)
	ConnectTransport(ctx context.Context, transportID string, dtlsParameters json.RawMessage) error

	Produce(ctx context.Context, transportID string, kind domain.MediaKind, rtpParameters json.RawMessage, appTag string) (producerID string, err error)

	CanConsume(producerID string, rtpCapabilities json.RawMessage) bool
	// Consume creates the consumer in the paused state.
	Consume(ctx context.Context, transportID, producerID string, rtpCapabilities json.RawMessage) (domain.ConsumerInfo, error)
	ResumeConsumer(ctx context.Context, consumerID string) error
	CloseConsumer(ctx context.Context, consumerID string) error

	CloseProducer(ctx context.Context, producerID string) error
	CloseTransport(ctx context.Context, transportID string) error
}
