package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classmeet/server/internal/core/domain"
)

func TestMeetingRepository(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	first := domain.NewMeeting("Algebra review", nil)
	second := domain.NewMeeting("", nil)

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Algebra review", got.Name)
	require.True(t, got.Settings.EnableChat)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
