package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Owner identifies the authenticated user a mutation acts for.
type Owner struct {
	ID    uuid.UUID
	Email string
}

// Input carries the editable fields of an application. Stage fields are
// ignored on create (a new application always starts at stage 0).
type Input struct {
	Company            string
	Position           string
	JobType            JobType
	WorkLocation       string
	Compensation       string
	Notes              string
	Tags               []string
	Stages             []string
	CurrentStageIndex  int
	CurrentStageStatus StageStatus
	StageDates         map[int]int64
}

// UseCase exposes the application-tracking operations.
type UseCase interface {
	Create(ctx context.Context, owner Owner, in Input) (Application, error)
	// ListForOwner applies the stale-screening sweep and persists corrections.
	ListForOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Application, error)
	// ListByEmail serves view-only mode: read-only, no sweep, no writes.
	ListByEmail(ctx context.Context, email string, limit, offset int) ([]Application, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (Application, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, in Input) (Application, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	AdvanceStage(ctx context.Context, ownerID, id uuid.UUID, targetIndex int) (Application, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error)
}

type service struct {
	repo Repository
	now  func() int64
}

// NewService returns the default UseCase implementation.
func NewService(repo Repository) UseCase {
	return &service{repo: repo, now: func() int64 { return time.Now().UnixMilli() }}
}

func validate(in Input) error {
	if strings.TrimSpace(in.Company) == "" {
		return ErrValidation("company is required")
	}
	if strings.TrimSpace(in.Position) == "" {
		return ErrValidation("position is required")
	}
	return nil
}

func (s *service) Create(ctx context.Context, owner Owner, in Input) (Application, error) {
	if err := validate(in); err != nil {
		return Application{}, err
	}
	stages := in.Stages
	if len(stages) == 0 {
		stages = append([]string(nil), DefaultStages...)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.now()
	app := Application{
		ID:                 uuid.New(),
		OwnerID:            owner.ID,
		OwnerEmail:         owner.Email,
		Company:            strings.TrimSpace(in.Company),
		Position:           strings.TrimSpace(in.Position),
		JobType:            in.JobType,
		WorkLocation:       in.WorkLocation,
		Compensation:       in.Compensation,
		Notes:              in.Notes,
		Tags:               tags,
		Stages:             stages,
		CurrentStageIndex:  0,
		CurrentStageStatus: StatusInProgress,
		StageDates:         map[int]int64{0: now},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Application, error) {
	apps, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i, app := range apps {
		swept, changed := SweepStaleScreening(app, now)
		if !changed {
			continue
		}
		apps[i] = swept
		// Best-effort: a failed persist still returns the corrected view,
		// and the next read re-detects the same record.
		_ = s.repo.UpdateStatus(ctx, ownerID, swept.ID, swept.CurrentStageStatus, now)
	}
	return apps, nil
}

func (s *service) ListByEmail(ctx context.Context, email string, limit, offset int) ([]Application, error) {
	return s.repo.ListByOwnerEmail(ctx, email, limit, offset)
}

func (s *service) Get(ctx context.Context, ownerID, id uuid.UUID) (Application, error) {
	return s.repo.GetForOwner(ctx, ownerID, id)
}

func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, in Input) (Application, error) {
	if err := validate(in); err != nil {
		return Application{}, err
	}
	current, err := s.repo.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return Application{}, err
	}
	stages := in.Stages
	if len(stages) == 0 {
		stages = current.Stages
	}
	if in.CurrentStageIndex < 0 || in.CurrentStageIndex >= len(stages) {
		return Application{}, ErrValidation("stage index out of range")
	}
	app := current
	app.Company = strings.TrimSpace(in.Company)
	app.Position = strings.TrimSpace(in.Position)
	app.JobType = in.JobType
	app.WorkLocation = in.WorkLocation
	app.Compensation = in.Compensation
	app.Notes = in.Notes
	app.Tags = in.Tags
	app.Stages = stages
	app.CurrentStageIndex = in.CurrentStageIndex
	app.CurrentStageStatus = in.CurrentStageStatus
	if in.StageDates != nil {
		app.StageDates = in.StageDates
	}
	app.UpdatedAt = s.now()
	if err := s.repo.UpdateForOwner(ctx, ownerID, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteForOwner(ctx, ownerID, id)
}

func (s *service) AdvanceStage(ctx context.Context, ownerID, id uuid.UUID, targetIndex int) (Application, error) {
	app, err := s.repo.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return Application{}, err
	}
	// The engine assumes a valid index; this is the boundary that checks it.
	if targetIndex < 0 || targetIndex >= len(app.Stages) {
		return Application{}, ErrValidation("stage index out of range")
	}
	now := s.now()
	t := Advance(app, targetIndex, now)
	if err := s.repo.UpdateStage(ctx, ownerID, id, t, now); err != nil {
		return Application{}, err
	}
	app.CurrentStageIndex = t.StageIndex
	app.CurrentStageStatus = t.Status
	app.StageDates = t.StageDates
	app.UpdatedAt = now
	return app, nil
}

func (s *service) Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error) {
	return s.repo.CountByOwner(ctx, ownerID)
}
