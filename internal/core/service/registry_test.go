package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classmeet/server/internal/core/domain"
)

func newPeer(id string) *domain.PeerSession {
	return domain.NewPeerSession(domain.ConnectionID(id), newFakeClient(id))
}

func TestConcurrentJoinCreatesSingleRoom(t *testing.T) {
	registry := NewRoomRegistry()

	const n = 32
	rooms := make([]*domain.Room, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rooms[i] = registry.Join("math-101", newPeer(fmt.Sprintf("conn-%d", i)))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, registry.Len())
	for i := 1; i < n; i++ {
		require.Same(t, rooms[0], rooms[i])
	}
	require.Equal(t, n, rooms[0].PeerCount())
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	registry := NewRoomRegistry()

	room := registry.Join("r2", newPeer("a"))
	room.AddProducer(&domain.Producer{ID: "p1", Owner: "a", Kind: domain.MediaKindVideo})

	_, deleted := registry.Leave("r2", "a")
	require.True(t, deleted)
	require.Equal(t, 0, registry.Len())

	_, ok := registry.Get("r2")
	require.False(t, ok)

	// A later join gets a fresh room with no leaked producers.
	fresh := registry.Join("r2", newPeer("b"))
	require.NotSame(t, room, fresh)
	require.Empty(t, fresh.Producers())
}

func TestLeaveKeepsRoomWithRemainingPeers(t *testing.T) {
	registry := NewRoomRegistry()

	registry.Join("r1", newPeer("a"))
	registry.Join("r1", newPeer("b"))

	room, deleted := registry.Leave("r1", "a")
	require.False(t, deleted)
	require.NotNil(t, room)
	require.Equal(t, 1, room.PeerCount())
	require.Equal(t, 1, registry.Len())
}

func TestLeaveUnknownRoom(t *testing.T) {
	registry := NewRoomRegistry()
	room, deleted := registry.Leave("missing", "a")
	require.Nil(t, room)
	require.False(t, deleted)
}
