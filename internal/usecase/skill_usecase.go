package usecase

import (
	"context"
	"strings"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/validation"
)

type skillUsecase struct {
	skillRepo domain.SkillRepository
}

func NewSkillUsecase(skillRepo domain.SkillRepository) domain.SkillUsecase {
	return &skillUsecase{skillRepo: skillRepo}
}

// normalizeSkillNames trims names and drops case-insensitive repeats, keeping
// the first spelling.
func normalizeSkillNames(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, apperror.BadRequest("Skill name must not be empty")
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

func (u *skillUsecase) FindOrCreate(ctx context.Context, name string) (*domain.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.BadRequest("Skill name must not be empty")
	}
	skill, err := u.skillRepo.FindOrCreate(ctx, name)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return skill, nil
}

// AddUserSkills re-adding an owned skill is a no-op; the stored proficiency is kept.
func (u *skillUsecase) AddUserSkills(ctx context.Context, userID string, skills []domain.UserSkillInput) ([]domain.UserSkill, error) {
	if len(skills) == 0 {
		return nil, apperror.BadRequest("At least one skill is required")
	}
	names := make([]string, len(skills))
	for i, s := range skills {
		if s.ProficiencyLevel < validation.MinProficiency || s.ProficiencyLevel > validation.MaxProficiency {
			return nil, apperror.BadRequest("Proficiency level must be between 1 and 10")
		}
		names[i] = strings.TrimSpace(s.SkillName)
		if names[i] == "" {
			return nil, apperror.BadRequest("Skill name must not be empty")
		}
	}

	for i, s := range skills {
		skill, err := u.FindOrCreate(ctx, names[i])
		if err != nil {
			return nil, err
		}
		if _, err := u.skillRepo.AssociateUserSkill(ctx, userID, skill.ID, s.ProficiencyLevel); err != nil {
			return nil, notFoundOr(err, errUserNotFound)
		}
	}

	return u.GetUserSkills(ctx, userID)
}

func (u *skillUsecase) GetUserSkills(ctx context.Context, userID string) ([]domain.UserSkill, error) {
	skills, err := u.skillRepo.ListUserSkills(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if skills == nil {
		skills = []domain.UserSkill{}
	}
	return skills, nil
}

// DeleteUserSkills ignores ids owned by other users.
func (u *skillUsecase) DeleteUserSkills(ctx context.Context, userID string, userSkillIDs []string) error {
	if len(userSkillIDs) == 0 {
		return apperror.BadRequest("At least one skill id is required")
	}
	n, err := u.skillRepo.DeleteUserSkills(ctx, userID, userSkillIDs)
	if err != nil {
		return notFoundOr(err, apperror.NotFound("No matching skills found"))
	}
	if n == 0 {
		return apperror.NotFound("No matching skills found")
	}
	return nil
}

// SetJobSkills either appends to or replaces a job's skill set.
func (u *skillUsecase) SetJobSkills(ctx context.Context, jobID string, names []string, replace bool) ([]domain.JobSkill, error) {
	names, err := normalizeSkillNames(names)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, n := range names {
		skill, err := u.skillRepo.FindOrCreate(ctx, n)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		ids = append(ids, skill.ID)
	}

	if replace {
		if err := u.skillRepo.ReplaceJobSkills(ctx, jobID, ids); err != nil {
			return nil, notFoundOr(err, errJobNotFound)
		}
	} else {
		for _, id := range ids {
			if err := u.skillRepo.AssociateJobSkill(ctx, jobID, id); err != nil {
				return nil, notFoundOr(err, errJobNotFound)
			}
		}
	}

	skills, err := u.skillRepo.ListJobSkills(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return skills, nil
}
