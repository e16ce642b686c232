package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

var (
	errNoJobSkills = apperror.New(http.StatusNotFound, apperror.KindJobNotFound,
		"No skills found for the given job", nil)
	errAlreadyApplied = apperror.New(http.StatusConflict, apperror.KindAlreadyApplied,
		"User has already applied for this job", nil)
	errSkillMismatch = apperror.New(http.StatusBadRequest, apperror.KindSkillMismatch,
		"User does not meet job skill requirements", nil)
	errApplicationNotFound = apperror.NotFound("Application not found")
)

const (
	minReportYear = 1970
	maxReportYear = 9999
)

type applicationUsecase struct {
	appRepo   domain.ApplicationRepository
	jobRepo   domain.JobRepository
	skillRepo domain.SkillRepository
	resumeUC  domain.ResumeUsecase
	userUC    domain.UserUsecase
}

func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	skillRepo domain.SkillRepository,
	resumeUC domain.ResumeUsecase,
	userUC domain.UserUsecase,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:   appRepo,
		jobRepo:   jobRepo,
		skillRepo: skillRepo,
		resumeUC:  resumeUC,
		userUC:    userUC,
	}
}

// Apply runs every admission check before touching the user's resume. The
// resume replacement and the application insert commit together, and the
// (user, job) unique constraint settles concurrent attempts.
func (uc *applicationUsecase) Apply(ctx context.Context, userID, jobID string, resume domain.ResumeUpload) (*domain.Application, error) {
	if resume.Content == nil {
		return nil, apperror.BadRequest("No resume uploaded")
	}

	// 1. Job must have a skill set
	jobSkills, err := uc.skillRepo.ListJobSkills(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(jobSkills) == 0 {
		return nil, errNoJobSkills
	}

	// 2. One application per user and job
	exists, err := uc.appRepo.Exists(ctx, userID, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, errAlreadyApplied
	}

	// 3. Binary possession; proficiency is not considered
	userSkills, err := uc.skillRepo.ListUserSkills(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !hasAllSkills(jobSkills, userSkills) {
		return nil, errSkillMismatch
	}

	// 4. Resume blob, then resume row + application in one transaction
	staged, err := uc.resumeUC.Stage(ctx, userID, resume)
	if err != nil {
		return nil, err
	}

	app := &domain.Application{
		ID:     uuid.NewString(),
		JobID:  jobID,
		UserID: userID,
		Status: domain.ApplicationStatusPending,
	}
	prev, err := uc.appRepo.CreateWithResume(ctx, app, staged)
	if err != nil {
		uc.resumeUC.Discard(ctx, staged)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, errAlreadyApplied
		case errors.Is(err, domain.ErrNotFound):
			return nil, errJobNotFound
		}
		return nil, apperror.Internal(err)
	}
	if prev != nil && prev.FilePath != staged.FilePath {
		uc.resumeUC.Discard(ctx, prev)
	}

	logger.Log.Info("Application submitted", "application_id", app.ID, "job_id", jobID)
	return app, nil
}

func hasAllSkills(required []domain.JobSkill, owned []domain.UserSkill) bool {
	have := make(map[string]struct{}, len(owned))
	for _, s := range owned {
		have[s.SkillID] = struct{}{}
	}
	for _, s := range required {
		if _, ok := have[s.SkillID]; !ok {
			return false
		}
	}
	return true
}

// Withdraw answers "not found" for applications owned by someone else.
func (uc *applicationUsecase) Withdraw(ctx context.Context, userID, applicationID string) error {
	if err := uc.appRepo.DeleteOwned(ctx, userID, applicationID); err != nil {
		return notFoundOr(err, errApplicationNotFound)
	}
	return nil
}

// SetStatus allows any transition between valid statuses.
func (uc *applicationUsecase) SetStatus(ctx context.Context, recruiterID string, change domain.StatusChange) error {
	if !change.Status.Valid() {
		return apperror.BadRequest("Status must be one of Pending, Approved, Rejected")
	}

	var message *string
	if change.Status == domain.ApplicationStatusRejected {
		msg := strings.TrimSpace(change.RejectionMessage)
		if msg == "" {
			return apperror.BadRequest("Rejection message is required when rejecting an application")
		}
		message = &msg
	}

	if err := uc.appRepo.UpdateStatus(ctx, change.ApplicationID, change.Status, recruiterID, message); err != nil {
		return notFoundOr(err, errApplicationNotFound)
	}
	return nil
}

func (uc *applicationUsecase) ListApplied(ctx context.Context, userID string) ([]domain.AppliedJob, error) {
	apps, err := uc.appRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	jobs := make([]*domain.Job, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFanOut)
	for i := range apps {
		i := i
		g.Go(func() error {
			job, err := uc.jobRepo.GetByID(gctx, apps[i].JobID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			jobs[i] = job
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}

	applied := make([]domain.AppliedJob, 0, len(apps))
	for i, app := range apps {
		if jobs[i] == nil {
			continue
		}
		applied = append(applied, domain.AppliedJob{
			ApplicationID:    app.ID,
			AppliedAt:        app.CreatedAt,
			Status:           app.Status,
			RejectionMessage: app.RejectionMessage,
			Job:              *jobs[i],
		})
	}
	return applied, nil
}

func (uc *applicationUsecase) ListApplicants(ctx context.Context, jobID string) ([]domain.Applicant, error) {
	if _, err := uc.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, notFoundOr(err, errJobNotFound)
	}

	apps, err := uc.appRepo.ListByJobID(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	applicants := make([]domain.Applicant, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFanOut)
	for i := range apps {
		i := i
		g.Go(func() error {
			profile, err := uc.userUC.GetProfile(gctx, apps[i].UserID)
			if err != nil {
				return err
			}
			applicants[i] = domain.Applicant{
				ApplicationID: apps[i].ID,
				UserID:        apps[i].UserID,
				Status:        apps[i].Status,
				AppliedAt:     apps[i].CreatedAt,
				UserProfile:   profile,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return applicants, nil
}

// StatusCounts always reports all three buckets.
func (uc *applicationUsecase) StatusCounts(ctx context.Context, userID string) (*domain.StatusCounts, error) {
	counts, err := uc.appRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.StatusCounts{
		Pending:  counts[domain.ApplicationStatusPending],
		Approved: counts[domain.ApplicationStatusApproved],
		Rejected: counts[domain.ApplicationStatusRejected],
	}, nil
}

// MonthlyCounts index 0 is January. Months are UTC calendar months.
func (uc *applicationUsecase) MonthlyCounts(ctx context.Context, year string) ([12]int, error) {
	var out [12]int

	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < minReportYear || y > maxReportYear {
		return out, apperror.BadRequest("Year must be a number between 1970 and 9999")
	}

	counts, err := uc.appRepo.CountByMonth(ctx, y)
	if err != nil {
		return out, apperror.Internal(err)
	}
	for month, n := range counts {
		if month >= 1 && month <= 12 {
			out[month-1] = n
		}
	}
	return out, nil
}

var exportHeader = []interface{}{
	"Application ID", "Username", "Email", "Mobile", "Status", "Applied At", "Skills", "Resume",
}

// ExportApplicants renders the job's applicants as an XLSX workbook and
// returns it with a suggested file name.
func (uc *applicationUsecase) ExportApplicants(ctx context.Context, jobID string) ([]byte, string, error) {
	applicants, err := uc.ListApplicants(ctx, jobID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Applicants"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", apperror.Internal(err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, "", apperror.Internal(err)
	}

	for i, a := range applicants {
		row := applicantRow(a)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", apperror.Internal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", apperror.Internal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return buf.Bytes(), fmt.Sprintf("applicants-%s.xlsx", jobID), nil
}

func applicantRow(a domain.Applicant) []interface{} {
	var username, email, mobile, resume string
	var skills []string
	if p := a.UserProfile; p != nil {
		if p.User != nil {
			username, email, mobile = p.User.Username, p.User.Email, p.User.Mobile
		}
		for _, s := range p.Skills {
			skills = append(skills, fmt.Sprintf("%s (%d)", s.SkillName, s.ProficiencyLevel))
		}
		if p.Resume != nil {
			resume = p.Resume.FileName
		}
	}
	return []interface{}{
		a.ApplicationID, username, email, mobile, string(a.Status),
		a.AppliedAt.UTC().Format(time.RFC3339), strings.Join(skills, ", "), resume,
	}
}
