package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusApproved ApplicationStatus = "Approved"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is one user's application to one job. (UserID, JobID) is unique.
type Application struct {
	ID               string            `json:"id"`
	JobID            string            `json:"jobId"`
	UserID           string            `json:"userId"`
	Status           ApplicationStatus `json:"status"`
	RecruiterID      *string           `json:"recruiterId,omitempty"`
	RejectionMessage *string           `json:"rejectionMessage,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// AppliedJob is a job snapshot annotated with the caller's application.
type AppliedJob struct {
	ApplicationID    string            `json:"applicationId"`
	AppliedAt        time.Time         `json:"appliedAt"`
	Status           ApplicationStatus `json:"status"`
	RejectionMessage *string           `json:"rejectionMessage,omitempty"`
	Job              Job               `json:"job"`
}

type Applicant struct {
	ApplicationID string            `json:"applicationId"`
	UserID        string            `json:"userId"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     time.Time         `json:"appliedAt"`
	UserProfile   *UserProfile      `json:"userProfile"`
}

type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type StatusChange struct {
	ApplicationID    string            `json:"applicationId" binding:"required,uuid"`
	Status           ApplicationStatus `json:"status" binding:"required"`
	RejectionMessage string            `json:"rejectionMessage"`
}

type ApplicationRepository interface {
	// CreateWithResume upserts the resume row and inserts the application in one
	// transaction. A duplicate (user, job) returns ErrDuplicate and rolls back
	// the resume change. The previous resume row, if replaced, is returned.
	CreateWithResume(ctx context.Context, app *Application, resume *Resume) (*Resume, error)
	Exists(ctx context.Context, userID, jobID string) (bool, error)
	GetByID(ctx context.Context, id string) (*Application, error)
	ListByUserID(ctx context.Context, userID string) ([]Application, error)
	ListByJobID(ctx context.Context, jobID string) ([]Application, error)
	DeleteOwned(ctx context.Context, userID, applicationID string) error
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus, recruiterID string, rejectionMessage *string) error
	CountByStatus(ctx context.Context, userID string) (map[ApplicationStatus]int, error)
	CountByMonth(ctx context.Context, year int) (map[int]int, error)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, userID, jobID string, resume ResumeUpload) (*Application, error)
	Withdraw(ctx context.Context, userID, applicationID string) error
	SetStatus(ctx context.Context, recruiterID string, change StatusChange) error
	ListApplied(ctx context.Context, userID string) ([]AppliedJob, error)
	ListApplicants(ctx context.Context, jobID string) ([]Applicant, error)
	StatusCounts(ctx context.Context, userID string) (*StatusCounts, error)
	MonthlyCounts(ctx context.Context, year string) ([12]int, error)
	ExportApplicants(ctx context.Context, jobID string) ([]byte, string, error)
}
