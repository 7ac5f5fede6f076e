package http

import (
	"encoding/json"
	"errors"

	"github.com/classmeet/server/internal/core/domain"
)

// Wire envelopes. One websocket per connection carries correlation-id
// request/response pairs plus server-initiated events.

type request struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type response struct {
	ID    uint64     `json:"id"`
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *wireError `json:"error,omitempty"`
}

type event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeNotFound   = "NOT_FOUND"
	codePermission = "PERMISSION_DENIED"
	codeIncompat   = "INCOMPATIBLE"
	codeEngine     = "ENGINE_ERROR"
	codeBadRequest = "BAD_REQUEST"
)

func toWireError(err error) *wireError {
	var engineErr *domain.EngineError

	code := codeBadRequest
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = codeNotFound
	case errors.Is(err, domain.ErrPermissionDenied):
		code = codePermission
	case errors.Is(err, domain.ErrIncompatible):
		code = codeIncompat
	case errors.As(err, &engineErr):
		code = codeEngine
	}
	return &wireError{Code: code, Message: err.Error()}
}

// Request payloads.

type joinData struct {
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName,omitempty"`
}

type createTransportData struct {
	Direction string `json:"direction,omitempty"`
}

type connectTransportData struct {
	TransportID    string          `json:"transportId"`
	DtlsParameters json.RawMessage `json:"dtlsParameters"`
}

type produceData struct {
	TransportID   string          `json:"transportId"`
	Kind          string          `json:"kind"`
	RtpParameters json.RawMessage `json:"rtpParameters"`
	AppTag        string          `json:"appTag,omitempty"`
}

type consumeData struct {
	TransportID     string          `json:"transportId"`
	ProducerID      string          `json:"producerId"`
	RtpCapabilities json.RawMessage `json:"rtpCapabilities"`
}

type resumeConsumerData struct {
	ConsumerID string `json:"consumerId"`
}

type closeProducerData struct {
	ProducerID string `json:"producerId"`
}

type chatData struct {
	Text string `json:"text"`
}

type screenShareData struct {
	Sharing    bool   `json:"sharing"`
	ProducerID string `json:"producerId,omitempty"`
}

// Response payloads with no dedicated struct elsewhere.

type capabilitiesData struct {
	RtpCapabilities json.RawMessage `json:"rtpCapabilities"`
}

type produceResult struct {
	ProducerID string `json:"producerId"`
}

type ack struct{}
