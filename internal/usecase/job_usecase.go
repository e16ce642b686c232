package usecase

import (
	"context"
	"errors"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/logger"

	"github.com/google/uuid"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
	skillUC domain.SkillUsecase
}

func NewJobUsecase(jobRepo domain.JobRepository, skillUC domain.SkillUsecase) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo, skillUC: skillUC}
}

func (u *jobUsecase) CreateJob(ctx context.Context, posterID string, in domain.JobInput) (*domain.Job, error) {
	if len(in.Skills) == 0 {
		return nil, apperror.BadRequest("At least one skill is required")
	}

	job := &domain.Job{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Description:     in.Description,
		ExperienceLevel: in.ExperienceLevel,
		SalaryRange:     in.SalaryRange,
		Location:        in.Location,
		Deadline:        in.Deadline,
		PostedBy:        posterID,
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}

	skills, err := u.skillUC.SetJobSkills(ctx, job.ID, in.Skills, false)
	if err != nil {
		// A job without skills can never be applied to; do not leave one behind.
		if delErr := u.jobRepo.Delete(ctx, job.ID); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
			logger.Log.Error("Failed to roll back job after skill failure", "job_id", job.ID, "error", delErr)
		}
		return nil, err
	}
	job.Skills = skills
	return job, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errJobNotFound)
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]domain.Job, int64, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)

	jobs, total, err := u.jobRepo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, total, nil
}

// ownedJob loads a job and checks that callerID posted it.
func (u *jobUsecase) ownedJob(ctx context.Context, callerID, id, action string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errJobNotFound)
	}
	if job.PostedBy != callerID {
		return nil, apperror.Forbidden("Unauthorized to " + action + " this job")
	}
	return job, nil
}

// UpdateJob replaces the job's skill set only when in.Skills is non-nil.
func (u *jobUsecase) UpdateJob(ctx context.Context, callerID, id string, in domain.JobInput) (*domain.Job, error) {
	job, err := u.ownedJob(ctx, callerID, id, "update")
	if err != nil {
		return nil, err
	}
	if in.Skills != nil && len(in.Skills) == 0 {
		return nil, apperror.BadRequest("At least one skill is required")
	}

	job.Title = in.Title
	job.Description = in.Description
	job.ExperienceLevel = in.ExperienceLevel
	job.SalaryRange = in.SalaryRange
	job.Location = in.Location
	job.Deadline = in.Deadline

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, notFoundOr(err, errJobNotFound)
	}

	if in.Skills != nil {
		skills, err := u.skillUC.SetJobSkills(ctx, job.ID, in.Skills, true)
		if err != nil {
			return nil, err
		}
		job.Skills = skills
	}
	return job, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, callerID, id string) error {
	if _, err := u.ownedJob(ctx, callerID, id, "delete"); err != nil {
		return err
	}
	if err := u.jobRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return apperror.Internal(err)
	}
	return nil
}
