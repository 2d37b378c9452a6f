package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haoyun/jobflow/pkg/tracker"
)

type memRepo struct {
	byUser map[uuid.UUID]Settings
}

func (r *memRepo) Get(_ context.Context, userID uuid.UUID) (Settings, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return Settings{}, ErrNotFound
	}
	return s, nil
}

func (r *memRepo) Save(_ context.Context, userID uuid.UUID, s Settings) error {
	r.byUser[userID] = s
	return nil
}

func TestGet_FallsBackToDefaultPipeline(t *testing.T) {
	svc := NewService(&memRepo{byUser: map[uuid.UUID]Settings{}})
	got, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, tracker.DefaultStages, got.DefaultStages)
	assert.Empty(t, got.LastViewEmail)
}

func TestSaveAndGet(t *testing.T) {
	svc := NewService(&memRepo{byUser: map[uuid.UUID]Settings{}})
	userID := uuid.New()

	_, err := svc.Save(context.Background(), userID, Settings{})
	assert.ErrorIs(t, err, ErrNoStages)

	custom := Settings{DefaultStages: []string{"已投递", "初筛", "OC"}, LastViewEmail: "peer@b.c"}
	saved, err := svc.Save(context.Background(), userID, custom)
	require.NoError(t, err)
	assert.Equal(t, custom, saved)

	got, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}
