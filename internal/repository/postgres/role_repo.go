package postgres

import (
	"context"

	"go-job-portal-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type roleRepo struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) domain.RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx, `SELECT id, role FROM roles WHERE id = $1`, id).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, mapError(err)
	}
	return &role, nil
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx, `SELECT id, role FROM roles WHERE role = $1`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, mapError(err)
	}
	return &role, nil
}

// Ensure creates the role if missing and returns the stored row either way.
func (r *roleRepo) Ensure(ctx context.Context, name string) (*domain.Role, error) {
	query := `
		INSERT INTO roles (id, role) VALUES ($1, $2)
		ON CONFLICT (role) DO UPDATE SET role = EXCLUDED.role
		RETURNING id, role`
	var role domain.Role
	if err := r.db.QueryRow(ctx, query, uuid.NewString(), name).Scan(&role.ID, &role.Name); err != nil {
		return nil, mapError(err)
	}
	return &role, nil
}
