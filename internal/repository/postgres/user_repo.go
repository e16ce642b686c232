package postgres

import (
	"context"
	"time"

	"go-job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `
	u.id, u.username, u.email, u.mobile, u.password, u.status, u.role_id, COALESCE(r.role, ''),
	u.two_factor_enabled, u.two_factor_secret, u.is_popup, u.created_at, u.updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Mobile, &user.PasswordHash, &user.Status,
		&user.RoleID, &user.Role, &user.TwoFactorEnabled, &user.TwoFactorSecret, &user.IsPopup,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// Create fails with domain.ErrDuplicate when the email is taken.
func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, mobile, password, status, role_id, is_popup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = domain.UserStatusUnauthorized
	}

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Mobile, user.PasswordHash,
		string(user.Status), user.RoleID, user.IsPopup, user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users u LEFT JOIN roles r ON r.id = u.role_id WHERE u.id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users u LEFT JOIN roles r ON r.id = u.role_id WHERE LOWER(u.email) = LOWER($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users u LEFT JOIN roles r ON r.id = u.role_id ORDER BY u.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// execOne returns domain.ErrNotFound when no row matched.
func (r *userRepo) execOne(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return r.execOne(ctx, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
}

func (r *userRepo) SetTwoFactor(ctx context.Context, id string, secret *string, enabled bool) error {
	return r.execOne(ctx,
		`UPDATE users SET two_factor_secret = $2, two_factor_enabled = $3, updated_at = NOW() WHERE id = $1`,
		id, secret, enabled,
	)
}

func (r *userRepo) SetPopup(ctx context.Context, id string, isPopup bool) error {
	return r.execOne(ctx, `UPDATE users SET is_popup = $2, updated_at = NOW() WHERE id = $1`, id, isPopup)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
}

// Delete cascades to the user's resume, skills, jobs and applications.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

// DeleteUnauthorizedBefore re-checks status in the same statement, so a user
// verified concurrently is never removed.
func (r *userRepo) DeleteUnauthorizedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM users WHERE status = $1 AND created_at < $2`,
		string(domain.UserStatusUnauthorized), cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
