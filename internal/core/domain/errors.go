package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers every lookup miss: unknown transport, producer,
	// consumer or meeting, including resources that exist but are not
	// visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned for operations on a resource that
	// exists but is owned by another connection.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIncompatible is returned when the receiver's RTP capabilities
	// cannot consume the target producer.
	ErrIncompatible = errors.New("incompatible rtp capabilities")
)

// EngineError wraps a failure inside the media engine (transport allocation,
// DTLS handshake, produce/consume negotiation).
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("media engine: %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
