package postgres

import (
	"context"

	"go-job-portal-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type skillRepo struct {
	db *pgxpool.Pool
}

func NewSkillRepository(db *pgxpool.Pool) domain.SkillRepository {
	return &skillRepo{db: db}
}

// FindOrCreate keeps the stored spelling when the name already exists in any case.
func (r *skillRepo) FindOrCreate(ctx context.Context, name string) (*domain.Skill, error) {
	query := `
		INSERT INTO skills (id, name) VALUES ($1, $2)
		ON CONFLICT ((LOWER(name))) DO UPDATE SET updated_at = skills.updated_at
		RETURNING id, name, created_at`

	var skill domain.Skill
	err := r.db.QueryRow(ctx, query, uuid.NewString(), name).Scan(&skill.ID, &skill.Name, &skill.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &skill, nil
}

func (r *skillRepo) ListJobSkills(ctx context.Context, jobID string) ([]domain.JobSkill, error) {
	return listJobSkills(ctx, r.db, []string{jobID})
}

// listJobSkills loads skills for several jobs at once.
func listJobSkills(ctx context.Context, q querier, jobIDs []string) ([]domain.JobSkill, error) {
	query := `
		SELECT js.id, js.job_id, js.skill_id, s.name
		FROM job_skills js
		JOIN skills s ON s.id = js.skill_id
		WHERE js.job_id = ANY($1::uuid[])
		ORDER BY js.created_at, s.name`

	rows, err := q.Query(ctx, query, pq.Array(jobIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.JobSkill
	for rows.Next() {
		var js domain.JobSkill
		if err := rows.Scan(&js.ID, &js.JobID, &js.SkillID, &js.SkillName); err != nil {
			return nil, err
		}
		skills = append(skills, js)
	}
	return skills, rows.Err()
}

func (r *skillRepo) ListUserSkills(ctx context.Context, userID string) ([]domain.UserSkill, error) {
	query := `
		SELECT us.id, us.user_id, us.skill_id, s.name, us.proficiency_level
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = $1
		ORDER BY us.created_at, s.name`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.UserSkill
	for rows.Next() {
		var us domain.UserSkill
		if err := rows.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.ProficiencyLevel); err != nil {
			return nil, err
		}
		skills = append(skills, us)
	}
	return skills, rows.Err()
}

func (r *skillRepo) AssociateJobSkill(ctx context.Context, jobID, skillID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_skills (id, job_id, skill_id) VALUES ($1, $2, $3) ON CONFLICT (job_id, skill_id) DO NOTHING`,
		uuid.NewString(), jobID, skillID,
	)
	return mapError(err)
}

// ReplaceJobSkills swaps the full skill set of a job atomically.
func (r *skillRepo) ReplaceJobSkills(ctx context.Context, jobID string, skillIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM job_skills WHERE job_id = $1 AND NOT (skill_id = ANY($2::uuid[]))`,
		jobID, pq.Array(skillIDs),
	); err != nil {
		return mapError(err)
	}

	for _, skillID := range skillIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_skills (id, job_id, skill_id) VALUES ($1, $2, $3) ON CONFLICT (job_id, skill_id) DO NOTHING`,
			uuid.NewString(), jobID, skillID,
		); err != nil {
			return mapError(err)
		}
	}

	return tx.Commit(ctx)
}

func (r *skillRepo) AssociateUserSkill(ctx context.Context, userID, skillID string, proficiencyLevel int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_skills (id, user_id, skill_id, proficiency_level)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, skill_id) DO NOTHING`,
		uuid.NewString(), userID, skillID, proficiencyLevel,
	)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteUserSkills only removes rows owned by userID.
func (r *skillRepo) DeleteUserSkills(ctx context.Context, userID string, userSkillIDs []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_skills WHERE user_id = $1 AND id = ANY($2::uuid[])`,
		userID, pq.Array(userSkillIDs),
	)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}
