package domain

import (
	"github.com/google/uuid"
)

// ConnectionID identifies one network connection. It is assigned when the
// connection is accepted, not chosen by the client.
type ConnectionID string

// RoomID is the meeting code. Clients bring their own, so it stays an opaque
// string rather than a UUID.
type RoomID string

func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

func (id ConnectionID) String() string {
	return string(id)
}

func (id RoomID) String() string {
	return string(id)
}

type MeetingID string

func NewMeetingID() MeetingID {
	return MeetingID(uuid.NewString())
}

func (id MeetingID) String() string {
	return string(id)
}
