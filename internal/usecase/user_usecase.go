package usecase

import (
	"context"
	"errors"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"

	"golang.org/x/sync/errgroup"
)

// profileFanOut bounds concurrent profile loads.
const profileFanOut = 8

type userUsecase struct {
	userRepo   domain.UserRepository
	skillRepo  domain.SkillRepository
	resumeRepo domain.ResumeRepository
}

func NewUserUsecase(userRepo domain.UserRepository, skillRepo domain.SkillRepository, resumeRepo domain.ResumeRepository) domain.UserUsecase {
	return &userUsecase{userRepo: userRepo, skillRepo: skillRepo, resumeRepo: resumeRepo}
}

// attach loads skills and resume onto an already loaded user.
func (u *userUsecase) attach(ctx context.Context, user *domain.User) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{User: user, Skills: []domain.UserSkill{}}

	skills, err := u.skillRepo.ListUserSkills(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if skills != nil {
		profile.Skills = skills
	}

	resume, err := u.resumeRepo.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		profile.Resume = resume
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return profile, nil
}

func (u *userUsecase) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, errUserNotFound)
	}
	profile, err := u.attach(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (u *userUsecase) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	profiles := make([]domain.UserProfile, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFanOut)
	for i := range users {
		i := i
		g.Go(func() error {
			p, err := u.attach(gctx, &users[i])
			if err != nil {
				return err
			}
			profiles[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}
	return profiles, nil
}
