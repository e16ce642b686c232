package postgres

import (
	"context"
	"time"

	"go-job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id, job_id, user_id, status, recruiter_id, rejection_message, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*domain.Application, error) {
	var app domain.Application
	var status string
	if err := row.Scan(&app.ID, &app.JobID, &app.UserID, &status, &app.RecruiterID,
		&app.RejectionMessage, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	app.Status = domain.ApplicationStatus(status)
	return &app, nil
}

func (r *applicationRepo) CreateWithResume(ctx context.Context, app *domain.Application, resume *domain.Resume) (*domain.Resume, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	prev, err := upsertResume(ctx, tx, resume)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}

	// The (user_id, job_id) constraint decides concurrent applies.
	_, err = tx.Exec(ctx, `
		INSERT INTO job_applications (id, job_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		app.ID, app.JobID, app.UserID, string(app.Status), app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return prev, nil
}

func (r *applicationRepo) Exists(ctx context.Context, userID, jobID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_applications WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id))
}

func (r *applicationRepo) list(ctx context.Context, where string, arg string) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE `+where+` = $1 ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Application, error) {
	return r.list(ctx, "user_id", userID)
}

func (r *applicationRepo) ListByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.list(ctx, "job_id", jobID)
}

// DeleteOwned returns domain.ErrNotFound when the application is missing or not the user's.
func (r *applicationRepo) DeleteOwned(ctx context.Context, userID, applicationID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_applications WHERE id = $1 AND user_id = $2`, applicationID, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, recruiterID string, rejectionMessage *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE job_applications
		SET status = $2, recruiter_id = $3, rejection_message = $4, updated_at = NOW()
		WHERE id = $1`,
		id, string(status), recruiterID, rejectionMessage,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) CountByStatus(ctx context.Context, userID string) (map[domain.ApplicationStatus]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM job_applications WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ApplicationStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.ApplicationStatus(status)] = n
	}
	return counts, rows.Err()
}

// CountByMonth buckets by UTC calendar month. Keys are 1..12; empty months are absent.
func (r *applicationRepo) CountByMonth(ctx context.Context, year int) (map[int]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month, COUNT(*)
		FROM job_applications
		WHERE EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int = $1
		GROUP BY month`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var month, n int
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}
		counts[month] = n
	}
	return counts, rows.Err()
}
