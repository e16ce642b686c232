package usecase

import (
	"context"
	"errors"
	"strings"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/logger"

	"github.com/google/uuid"
)

type AdminAccount struct {
	Email    string
	Username string
	Password string
	Mobile   string
}

// Seeder creates the fixed roles and the bootstrap admin. Every step is idempotent.
type Seeder struct {
	userRepo domain.UserRepository
	roleRepo domain.RoleRepository
	hasher   domain.PasswordHasher
}

func NewSeeder(userRepo domain.UserRepository, roleRepo domain.RoleRepository, hasher domain.PasswordHasher) *Seeder {
	return &Seeder{userRepo: userRepo, roleRepo: roleRepo, hasher: hasher}
}

func (s *Seeder) Seed(ctx context.Context, admin AdminAccount) error {
	if _, err := s.roleRepo.Ensure(ctx, domain.RoleCandidate); err != nil {
		return err
	}
	adminRole, err := s.roleRepo.Ensure(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}

	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if admin.Email == "" || admin.Password == "" {
		logger.Log.Info("Admin seeding skipped, ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	_, err = s.userRepo.GetByEmail(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     admin.Username,
		Email:        admin.Email,
		Mobile:       admin.Mobile,
		PasswordHash: hash,
		Status:       domain.UserStatusAuthorized,
		RoleID:       adminRole.ID,
		IsPopup:      true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	logger.Log.Info("Seeded admin account", "user_id", user.ID)
	return nil
}
