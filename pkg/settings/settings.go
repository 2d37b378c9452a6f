// Package settings stores each user's tracker preferences: the default
// pipeline used when creating a new application, and the last email viewed
// in read-only mode (so a reload can restore the view session).
package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/haoyun/jobflow/pkg/tracker"
)

var (
	ErrNotFound = errors.New("settings not found")
	ErrNoStages = errors.New("default stages must not be empty")
)

type Settings struct {
	DefaultStages []string
	LastViewEmail string
}

// Repository is the persistence port for per-user settings.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (Settings, error)
	Save(ctx context.Context, userID uuid.UUID, s Settings) error
}

type UseCase interface {
	// Get falls back to the built-in default pipeline for users who never
	// saved anything.
	Get(ctx context.Context, userID uuid.UUID) (Settings, error)
	Save(ctx context.Context, userID uuid.UUID, s Settings) (Settings, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Get(ctx context.Context, userID uuid.UUID) (Settings, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Settings{DefaultStages: append([]string(nil), tracker.DefaultStages...)}, nil
		}
		return Settings{}, err
	}
	if len(stored.DefaultStages) == 0 {
		stored.DefaultStages = append([]string(nil), tracker.DefaultStages...)
	}
	return stored, nil
}

func (s *service) Save(ctx context.Context, userID uuid.UUID, in Settings) (Settings, error) {
	if len(in.DefaultStages) == 0 {
		return Settings{}, ErrNoStages
	}
	if err := s.repo.Save(ctx, userID, in); err != nil {
		return Settings{}, err
	}
	return in, nil
}
