package domain

import "sync"

// PeerSession is the per-connection bookkeeping: the transports, producers
// and consumers this connection owns. It is mutated by its own connection's
// dispatcher and read during broadcasts, so it carries its own lock.
type PeerSession struct {
	ConnectionID ConnectionID
	Client       Notifier

	mu          sync.RWMutex
	displayName string
	transports  map[string]TransportDirection
	producers   map[string]*Producer
	consumers   map[string]struct{}
}

func NewPeerSession(id ConnectionID, client Notifier) *PeerSession {
	return &PeerSession{
		ConnectionID: id,
		Client:       client,
		displayName:  DefaultDisplayName,
		transports:   make(map[string]TransportDirection),
		producers:    make(map[string]*Producer),
		consumers:    make(map[string]struct{}),
	}
}

func (p *PeerSession) DisplayName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.displayName
}

func (p *PeerSession) SetDisplayName(name string) {
	if name == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.displayName = name
}

func (p *PeerSession) AddTransport(id string, dir TransportDirection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transports[id] = dir
}

// OwnsTransport reports whether this connection created the transport.
// Every transport-scoped operation checks this before touching the engine.
func (p *PeerSession) OwnsTransport(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.transports[id]
	return ok
}

func (p *PeerSession) TransportIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.transports))
	for id := range p.transports {
		ids = append(ids, id)
	}
	return ids
}

func (p *PeerSession) AddProducer(pr *Producer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.producers[pr.ID] = pr
}

func (p *PeerSession) RemoveProducer(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.producers, id)
}

func (p *PeerSession) OwnsProducer(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.producers[id]
	return ok
}

func (p *PeerSession) OwnedProducers() []*Producer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Producer, 0, len(p.producers))
	for _, pr := range p.producers {
		out = append(out, pr)
	}
	return out
}

func (p *PeerSession) AddConsumer(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consumers[id] = struct{}{}
}

func (p *PeerSession) OwnsConsumer(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.consumers[id]
	return ok
}

func (p *PeerSession) RemoveConsumer(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.consumers, id)
}

// Reset clears all bookkeeping after the owning transports have been closed
// at the engine. The engine cascade may be asynchronous; local state is
// cleared regardless.
func (p *PeerSession) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transports = make(map[string]TransportDirection)
	p.producers = make(map[string]*Producer)
	p.consumers = make(map[string]struct{})
}
