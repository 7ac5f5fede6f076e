package service

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/classmeet/server/internal/core/domain"
	"github.com/classmeet/server/internal/metrics"
)

// RoomRegistry is the process-wide room-id -> Room map. A room exists iff it
// has at least one peer: Join creates it lazily, Leave destroys it when the
// last peer departs.
//
// Membership changes go through Join/Leave under the registry lock so that a
// leave deciding "room is empty, delete it" cannot interleave with a join
// adding a peer to the same room through a stale reference.
type RoomRegistry struct {
	mu    sync.Mutex
	rooms map[domain.RoomID]*domain.Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[domain.RoomID]*domain.Room),
	}
}

// Join registers the peer in the room, creating the room on first join.
func (r *RoomRegistry) Join(id domain.RoomID, peer *domain.PeerSession) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		room = domain.NewRoom(id)
		r.rooms[id] = room
		metrics.OpenRooms.Inc()
		log.Info().Str("room_id", id.String()).Msg("Room created")
	}
	room.AddPeer(peer)
	return room
}

// Leave removes the peer and deletes the room if it is now empty. The
// emptiness check happens under the registry lock, atomically with the
// removal.
func (r *RoomRegistry) Leave(id domain.RoomID, conn domain.ConnectionID) (room *domain.Room, deleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, false
	}
	room.RemovePeer(conn)
	if room.PeerCount() == 0 {
		delete(r.rooms, id)
		metrics.OpenRooms.Dec()
		log.Info().Str("room_id", id.String()).Msg("Room deleted (empty)")
		return room, true
	}
	return room, false
}

// Get returns the live room, if any. Read-only: never creates.
func (r *RoomRegistry) Get(id domain.RoomID) (*domain.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	return room, ok
}

func (r *RoomRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
