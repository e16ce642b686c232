package postgres

import (
	"context"
	"time"

	"go-job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, title, description, experience_level, salary_range, location, deadline, posted_by, created_at, updated_at`

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.ExperienceLevel, job.SalaryRange, job.Location,
		job.Deadline, job.PostedBy, job.CreatedAt, job.UpdatedAt,
	)
	return mapError(err)
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.Title, &job.Description, &job.ExperienceLevel, &job.SalaryRange, &job.Location,
		&job.Deadline, &job.PostedBy, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	skills, err := listJobSkills(ctx, r.db, []string{job.ID})
	if err != nil {
		return nil, err
	}
	job.Skills = skills
	return &job, nil
}

// List returns a page of jobs, newest first, with skills attached, plus the total count.
func (r *jobRepo) List(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.Job
	var ids []string
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID, &job.Title, &job.Description, &job.ExperienceLevel, &job.SalaryRange, &job.Location,
			&job.Deadline, &job.PostedBy, &job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
		ids = append(ids, job.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	if len(ids) == 0 {
		return jobs, total, nil
	}

	skills, err := listJobSkills(ctx, r.db, ids)
	if err != nil {
		return nil, 0, err
	}
	byJob := make(map[string][]domain.JobSkill, len(ids))
	for _, s := range skills {
		byJob[s.JobID] = append(byJob[s.JobID], s)
	}
	for i := range jobs {
		jobs[i].Skills = byJob[jobs[i].ID]
	}

	return jobs, total, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, description = $3, experience_level = $4, salary_range = $5,
		    location = $6, deadline = $7, updated_at = $8
		WHERE id = $1`

	job.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.ExperienceLevel, job.SalaryRange,
		job.Location, job.Deadline, job.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete cascades to job skills and applications.
func (r *jobRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
