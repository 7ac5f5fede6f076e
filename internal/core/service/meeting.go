package service

import (
	"context"

	"github.com/classmeet/server/internal/core/domain"
	"github.com/classmeet/server/internal/core/port"
)

// MeetingService manages meeting metadata. Independent of the live room
// state: a meeting stays listed while its room comes and goes with peers.
type MeetingService struct {
	repo port.MeetingRepository
}

func NewMeetingService(repo port.MeetingRepository) *MeetingService {
	return &MeetingService{repo: repo}
}

func (s *MeetingService) Create(ctx context.Context, name string, settings *domain.MeetingSettings) (domain.Meeting, error) {
	m := domain.NewMeeting(name, settings)
	if err := s.repo.Save(ctx, m); err != nil {
		return domain.Meeting{}, err
	}
	return m, nil
}

func (s *MeetingService) Get(ctx context.Context, id domain.MeetingID) (domain.Meeting, error) {
	return s.repo.Get(ctx, id)
}

func (s *MeetingService) List(ctx context.Context) ([]domain.Meeting, error) {
	return s.repo.List(ctx)
}
