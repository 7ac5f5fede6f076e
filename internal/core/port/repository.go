package port

import (
	"context"

	"github.com/classmeet/server/internal/core/domain"
)

type MeetingRepository interface {
	Save(ctx context.Context, m domain.Meeting) error
	// Get returns domain.ErrNotFound when the meeting does not exist.
	Get(ctx context.Context, id domain.MeetingID) (domain.Meeting, error)
	List(ctx context.Context) ([]domain.Meeting, error)
}
