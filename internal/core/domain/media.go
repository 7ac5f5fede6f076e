package domain

import "encoding/json"

// MediaKind mirrors the media engine's track kinds. Screen share is an
// ordinary video producer tagged with AppTagScreen, not a kind of its own.
type MediaKind string

const (
	MediaKindAudio MediaKind = "audio"
	MediaKindVideo MediaKind = "video"
)

// AppTagScreen marks a producer as a screen-share track so receivers can
// treat it differently (layout, keyframe requests).
const AppTagScreen = "screen"

// TransportDirection is the client's advisory hint at transport creation.
// It is recorded for diagnostics and never enforced.
type TransportDirection string

const (
	TransportSend TransportDirection = "send"
	TransportRecv TransportDirection = "recv"
)

// TransportInfo carries the negotiation material a client needs to complete
// the handshake. The parameter blobs are engine-defined and relayed opaquely.
type TransportInfo struct {
	ID             string          `json:"id"`
	IceParameters  json.RawMessage `json:"iceParameters"`
	IceCandidates  json.RawMessage `json:"iceCandidates"`
	DtlsParameters json.RawMessage `json:"dtlsParameters"`
}

// ConsumerInfo describes a newly created (paused) consumer.
type ConsumerInfo struct {
	ID            string          `json:"id"`
	ProducerID    string          `json:"producerId"`
	Kind          MediaKind       `json:"kind"`
	RtpParameters json.RawMessage `json:"rtpParameters"`
}
