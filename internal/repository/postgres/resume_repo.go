package postgres

import (
	"context"
	"errors"
	"time"

	"go-job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

const resumeColumns = `id, user_id, file_name, file_path, file_size, created_at, updated_at`

func scanResume(row interface{ Scan(...interface{}) error }) (*domain.Resume, error) {
	var res domain.Resume
	if err := row.Scan(&res.ID, &res.UserID, &res.FileName, &res.FilePath, &res.FileSize, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &res, nil
}

func (r *resumeRepo) GetByUserID(ctx context.Context, userID string) (*domain.Resume, error) {
	return scanResume(r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1`, userID))
}

func (r *resumeRepo) Upsert(ctx context.Context, resume *domain.Resume) (*domain.Resume, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	prev, err := upsertResume(ctx, tx, resume)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return prev, nil
}

// upsertResume replaces the user's resume row and returns what was there before.
// The row keeps its id and created_at across replacements. Must run inside a
// transaction: the per-user advisory lock is held until commit, so a concurrent
// first upload waits and then sees the row this one wrote.
func upsertResume(ctx context.Context, q querier, resume *domain.Resume) (*domain.Resume, error) {
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended('resume:' || $1::text, 0))`, resume.UserID); err != nil {
		return nil, err
	}

	prev, err := scanResume(q.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 FOR UPDATE`, resume.UserID))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO resumes (` + resumeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET file_name = EXCLUDED.file_name, file_path = EXCLUDED.file_path,
		    file_size = EXCLUDED.file_size, updated_at = EXCLUDED.updated_at
		RETURNING ` + resumeColumns

	stored, err := scanResume(q.QueryRow(ctx, query,
		resume.ID, resume.UserID, resume.FileName, resume.FilePath, resume.FileSize, now))
	if err != nil {
		return nil, err
	}
	*resume = *stored
	return prev, nil
}

func (r *resumeRepo) DeleteByUserID(ctx context.Context, userID string) (*domain.Resume, error) {
	return scanResume(r.db.QueryRow(ctx, `DELETE FROM resumes WHERE user_id = $1 RETURNING `+resumeColumns, userID))
}
