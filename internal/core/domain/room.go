package domain

import "sync"

// DefaultDisplayName is used until the client announces a name at join.
const DefaultDisplayName = "anonymous"

// Notifier delivers server-initiated events to one connected client.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(event string, data any) error
}

// Producer is the room-level record of one outbound media track. The engine
// owns the media state; this handle only tracks ownership and metadata.
type Producer struct {
	ID     string
	Owner  ConnectionID
	Kind   MediaKind
	AppTag string
}

// Participant is the roster entry broadcast on membership changes.
type Participant struct {
	ConnectionID ConnectionID `json:"connectionId"`
	DisplayName  string       `json:"displayName"`
}

// Room groups the peers of one meeting and the producers currently active
// in it. Membership changes go through the RoomRegistry so that
// destroy-on-empty cannot race a concurrent join.
type Room struct {
	ID RoomID

	mu        sync.RWMutex
	peers     map[ConnectionID]*PeerSession
	producers []*Producer
}

func NewRoom(id RoomID) *Room {
	return &Room{
		ID:    id,
		peers: make(map[ConnectionID]*PeerSession),
	}
}

func (r *Room) AddPeer(p *PeerSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[p.ConnectionID] = p
}

func (r *Room) RemovePeer(id ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, id)
}

func (r *Room) PeerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Peers returns a snapshot so callers can notify clients without holding
// the room lock.
func (r *Room) Peers() []*PeerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	peers := make([]*PeerSession, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	return peers
}

func (r *Room) Participants() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roster := make([]Participant, 0, len(r.peers))
	for _, p := range r.peers {
		roster = append(roster, Participant{
			ConnectionID: p.ConnectionID,
			DisplayName:  p.DisplayName(),
		})
	}
	return roster
}

func (r *Room) AddProducer(p *Producer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers = append(r.producers, p)
}

// RemoveProducer deletes the producer from the room list and reports whether
// it was present.
func (r *Room) RemoveProducer(id string) (*Producer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.producers {
		if p.ID == id {
			r.producers = append(r.producers[:i], r.producers[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

func (r *Room) FindProducer(id string) (*Producer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.producers {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (r *Room) Producers() []*Producer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Producer, len(r.producers))
	copy(out, r.producers)
	return out
}
