package tracker

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an application does not exist or belongs to
// another owner.
var ErrNotFound = errors.New("application not found")

// ErrValidation carries a user-facing validation message.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

// Repository is the persistence port for applications. All mutating methods
// are owner-scoped: a mismatched owner behaves like a missing record.
type Repository interface {
	Create(ctx context.Context, app Application) error
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (Application, error)
	// Lists return newest creation time first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Application, error)
	ListByOwnerEmail(ctx context.Context, email string, limit, offset int) ([]Application, error)
	UpdateForOwner(ctx context.Context, ownerID uuid.UUID, app Application) error
	// UpdateStage persists a stage-engine transition plus the refreshed updatedAt.
	UpdateStage(ctx context.Context, ownerID, id uuid.UUID, t Transition, updatedAt int64) error
	// UpdateStatus persists a sweep correction: status and updatedAt only.
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status StageStatus, updatedAt int64) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (Stats, error)
}
