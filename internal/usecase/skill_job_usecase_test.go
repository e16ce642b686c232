package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/internal/usecase"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSkillUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("Should dedupe names case-insensitively when replacing job skills", func(t *testing.T) {
		skills := new(MockSkillRepo)
		uc := usecase.NewSkillUsecase(skills)
		skills.On("FindOrCreate", ctx, "Go").Return(&domain.Skill{ID: "s-go", Name: "Go"}, nil).Once()
		skills.On("FindOrCreate", ctx, "SQL").Return(&domain.Skill{ID: "s-sql", Name: "SQL"}, nil).Once()
		skills.On("ReplaceJobSkills", ctx, "job-1", []string{"s-go", "s-sql"}).Return(nil)
		skills.On("ListJobSkills", ctx, "job-1").Return([]domain.JobSkill{goSkill, sqlSkill}, nil)

		out, err := uc.SetJobSkills(ctx, "job-1", []string{" Go ", "go", "SQL"}, true)
		require.NoError(t, err)
		assert.Len(t, out, 2)
		skills.AssertExpectations(t)
	})

	t.Run("Should reject blank skill names", func(t *testing.T) {
		uc := usecase.NewSkillUsecase(new(MockSkillRepo))
		_, err := uc.SetJobSkills(ctx, "job-1", []string{"Go", "  "}, false)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("Should skip skills the user already has", func(t *testing.T) {
		skills := new(MockSkillRepo)
		uc := usecase.NewSkillUsecase(skills)
		skills.On("FindOrCreate", ctx, "Go").Return(&domain.Skill{ID: "s-go", Name: "Go"}, nil)
		skills.On("AssociateUserSkill", ctx, "u-1", "s-go", 7).Return(false, nil)
		skills.On("ListUserSkills", ctx, "u-1").Return([]domain.UserSkill{{SkillID: "s-go", SkillName: "Go", ProficiencyLevel: 3}}, nil)

		out, err := uc.AddUserSkills(ctx, "u-1", []domain.UserSkillInput{{SkillName: "Go", ProficiencyLevel: 7}})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 3, out[0].ProficiencyLevel)
	})

	t.Run("Should validate proficiency range", func(t *testing.T) {
		uc := usecase.NewSkillUsecase(new(MockSkillRepo))
		_, err := uc.AddUserSkills(ctx, "u-1", []domain.UserSkillInput{{SkillName: "Go", ProficiencyLevel: 11}})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("Should reject a blank name before adding any skill", func(t *testing.T) {
		skills := new(MockSkillRepo)
		uc := usecase.NewSkillUsecase(skills)

		_, err := uc.AddUserSkills(ctx, "u-1", []domain.UserSkillInput{
			{SkillName: "Go", ProficiencyLevel: 5},
			{SkillName: "   ", ProficiencyLevel: 5},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		skills.AssertNotCalled(t, "FindOrCreate", mock.Anything, mock.Anything)
		skills.AssertNotCalled(t, "AssociateUserSkill", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should report when nothing was deleted", func(t *testing.T) {
		skills := new(MockSkillRepo)
		uc := usecase.NewSkillUsecase(skills)
		skills.On("DeleteUserSkills", ctx, "u-1", []string{"us-9"}).Return(int64(0), nil)

		err := uc.DeleteUserSkills(ctx, "u-1", []string{"us-9"})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestJobUsecase(t *testing.T) {
	ctx := context.Background()
	input := domain.JobInput{Title: "Backend", Description: "APIs", ExperienceLevel: "3", Location: "Remote", Skills: []string{"Go"}}

	t.Run("Should create a job with its skills", func(t *testing.T) {
		jobs, skills := new(MockJobRepo), new(MockSkillRepo)
		uc := usecase.NewJobUsecase(jobs, usecase.NewSkillUsecase(skills))
		jobs.On("Create", ctx, mock.AnythingOfType("*domain.Job")).Return(nil)
		skills.On("FindOrCreate", ctx, "Go").Return(&domain.Skill{ID: "s-go", Name: "Go"}, nil)
		skills.On("AssociateJobSkill", ctx, mock.Anything, "s-go").Return(nil)
		skills.On("ListJobSkills", ctx, mock.Anything).Return([]domain.JobSkill{goSkill}, nil)

		job, err := uc.CreateJob(ctx, "admin-1", input)
		require.NoError(t, err)
		assert.Equal(t, "admin-1", job.PostedBy)
		assert.Len(t, job.Skills, 1)
	})

	t.Run("Should log a failed rollback when skills cannot be linked", func(t *testing.T) {
		var buf bytes.Buffer
		prev := logger.Log
		logger.Log = slog.New(slog.NewJSONHandler(&buf, nil))
		defer func() { logger.Log = prev }()

		jobs, skills := new(MockJobRepo), new(MockSkillRepo)
		uc := usecase.NewJobUsecase(jobs, usecase.NewSkillUsecase(skills))
		jobs.On("Create", ctx, mock.AnythingOfType("*domain.Job")).Return(nil)
		skills.On("FindOrCreate", ctx, "Go").Return(nil, errors.New("db down"))
		jobs.On("Delete", ctx, mock.Anything).Return(errors.New("connection reset"))

		_, err := uc.CreateJob(ctx, "admin-1", input)
		assert.True(t, apperror.IsKind(err, apperror.KindInternal))
		jobs.AssertCalled(t, "Delete", ctx, mock.Anything)
		assert.Contains(t, buf.String(), "Failed to roll back job after skill failure")
		assert.Contains(t, buf.String(), "connection reset")
	})

	t.Run("Should require at least one skill", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo), usecase.NewSkillUsecase(new(MockSkillRepo)))
		in := input
		in.Skills = nil
		_, err := uc.CreateJob(ctx, "admin-1", in)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("Should only let the poster update or delete", func(t *testing.T) {
		jobs := new(MockJobRepo)
		uc := usecase.NewJobUsecase(jobs, usecase.NewSkillUsecase(new(MockSkillRepo)))
		jobs.On("GetByID", ctx, "job-1").Return(&domain.Job{ID: "job-1", PostedBy: "admin-1"}, nil)

		_, err := uc.UpdateJob(ctx, "admin-2", "job-1", input)
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

		err = uc.DeleteJob(ctx, "admin-2", "job-1")
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
		jobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Should clamp paging", func(t *testing.T) {
		jobs := new(MockJobRepo)
		uc := usecase.NewJobUsecase(jobs, usecase.NewSkillUsecase(new(MockSkillRepo)))
		jobs.On("List", ctx, 100, 0).Return([]domain.Job{}, int64(0), nil)

		_, _, err := uc.ListJobs(ctx, 0, 1000)
		require.NoError(t, err)
		jobs.AssertExpectations(t)
	})

	t.Run("Should report unknown jobs", func(t *testing.T) {
		jobs := new(MockJobRepo)
		uc := usecase.NewJobUsecase(jobs, usecase.NewSkillUsecase(new(MockSkillRepo)))
		jobs.On("GetByID", ctx, "nope").Return(nil, domain.ErrNotFound)

		_, err := uc.GetJob(ctx, "nope")
		assert.True(t, apperror.IsKind(err, apperror.KindJobNotFound))
	})
}
