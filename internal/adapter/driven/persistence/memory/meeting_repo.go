package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/classmeet/server/internal/core/domain"
)

// MeetingRepository keeps meeting metadata in memory. Meeting state does not
// survive restarts, matching the rest of the subsystem.
type MeetingRepository struct {
	mu       sync.RWMutex
	meetings map[domain.MeetingID]domain.Meeting
}

func NewMeetingRepository() *MeetingRepository {
	return &MeetingRepository{
		meetings: make(map[domain.MeetingID]domain.Meeting),
	}
}

func (r *MeetingRepository) Save(ctx context.Context, m domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[m.ID] = m
	return nil
}

func (r *MeetingRepository) Get(ctx context.Context, id domain.MeetingID) (domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("%w: meeting %s", domain.ErrNotFound, id)
	}
	return m, nil
}

func (r *MeetingRepository) List(ctx context.Context) ([]domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
