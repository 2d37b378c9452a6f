package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haoyun/jobflow/pkg/tracker"
)

// ApplicationRepository stores job applications and their pipeline state.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) (*ApplicationRepository, error) {
	r := &ApplicationRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ApplicationRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS applications (
	id UUID PRIMARY KEY,
	owner_id UUID NOT NULL,
	owner_email TEXT NOT NULL,
	company TEXT NOT NULL,
	position TEXT NOT NULL,
	job_type TEXT NOT NULL DEFAULT '',
	work_location TEXT NOT NULL DEFAULT '',
	compensation TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	tags JSONB NOT NULL DEFAULT '[]',
	stages JSONB NOT NULL DEFAULT '[]',
	current_stage_index INT NOT NULL DEFAULT 0,
	current_stage_status TEXT NOT NULL DEFAULT 'in-progress',
	stage_dates JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_owner ON applications(owner_id);
CREATE INDEX IF NOT EXISTS idx_applications_owner_email ON applications(owner_email);
`)
	return err
}

const applicationColumns = `
	id, owner_id, owner_email, company, position, job_type, work_location,
	compensation, notes, tags, stages, current_stage_index,
	current_stage_status, stage_dates, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, app tracker.Application) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO applications (`+applicationColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`,
		app.ID, app.OwnerID, strings.ToLower(app.OwnerEmail), app.Company, app.Position,
		string(app.JobType), app.WorkLocation, app.Compensation, app.Notes,
		stringsToJSON(app.Tags), stringsToJSON(app.Stages), app.CurrentStageIndex,
		string(app.CurrentStageStatus), stageDatesToJSON(app.StageDates),
		millisToTime(app.CreatedAt), millisToTime(app.UpdatedAt))
	return err
}

func (r *ApplicationRepository) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (tracker.Application, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND owner_id = $2
`, id, ownerID)
	return scanApplication(row)
}

func (r *ApplicationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]tracker.Application, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+applicationColumns+` FROM applications
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListByOwnerEmail(ctx context.Context, email string, limit, offset int) ([]tracker.Application, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+applicationColumns+` FROM applications
WHERE owner_email = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, strings.ToLower(email), limit, offset)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

func (r *ApplicationRepository) UpdateForOwner(ctx context.Context, ownerID uuid.UUID, app tracker.Application) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE applications SET
	company = $3, position = $4, job_type = $5, work_location = $6,
	compensation = $7, notes = $8, tags = $9, stages = $10,
	current_stage_index = $11, current_stage_status = $12, stage_dates = $13,
	updated_at = $14
WHERE id = $1 AND owner_id = $2
`,
		app.ID, ownerID, app.Company, app.Position, string(app.JobType),
		app.WorkLocation, app.Compensation, app.Notes,
		stringsToJSON(app.Tags), stringsToJSON(app.Stages),
		app.CurrentStageIndex, string(app.CurrentStageStatus),
		stageDatesToJSON(app.StageDates), millisToTime(app.UpdatedAt))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return tracker.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) UpdateStage(ctx context.Context, ownerID, id uuid.UUID, t tracker.Transition, updatedAt int64) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE applications SET
	current_stage_index = $3, current_stage_status = $4, stage_dates = $5, updated_at = $6
WHERE id = $1 AND owner_id = $2
`, id, ownerID, t.StageIndex, string(t.Status), stageDatesToJSON(t.StageDates), millisToTime(updatedAt))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return tracker.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status tracker.StageStatus, updatedAt int64) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE applications SET current_stage_status = $3, updated_at = $4
WHERE id = $1 AND owner_id = $2
`, id, ownerID, string(status), millisToTime(updatedAt))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return tracker.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return tracker.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (tracker.Stats, error) {
	row := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE current_stage_status <> 'rejected'
		AND current_stage_index < jsonb_array_length(stages) - 1),
	COUNT(*) FILTER (WHERE current_stage_status <> 'rejected'
		AND current_stage_index >= jsonb_array_length(stages) - 1),
	COUNT(*) FILTER (WHERE current_stage_status = 'rejected')
FROM applications WHERE owner_id = $1
`, ownerID)
	var st tracker.Stats
	if err := row.Scan(&st.Total, &st.Active, &st.Offers, &st.Rejected); err != nil {
		return tracker.Stats{}, err
	}
	return st, nil
}

func scanApplication(row pgx.Row) (tracker.Application, error) {
	var rec applicationRow
	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.OwnerEmail, &rec.Company, &rec.Position,
		&rec.JobType, &rec.WorkLocation, &rec.Compensation, &rec.Notes,
		&rec.Tags, &rec.Stages, &rec.CurrentStageIndex, &rec.CurrentStageStatus,
		&rec.StageDates, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tracker.Application{}, tracker.ErrNotFound
		}
		return tracker.Application{}, err
	}
	return rowToApplication(rec), nil
}

func collectApplications(rows pgx.Rows) ([]tracker.Application, error) {
	defer rows.Close()
	var res []tracker.Application
	for rows.Next() {
		var rec applicationRow
		err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.OwnerEmail, &rec.Company, &rec.Position,
			&rec.JobType, &rec.WorkLocation, &rec.Compensation, &rec.Notes,
			&rec.Tags, &rec.Stages, &rec.CurrentStageIndex, &rec.CurrentStageStatus,
			&rec.StageDates, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return nil, err
		}
		res = append(res, rowToApplication(rec))
	}
	return res, rows.Err()
}
