package domain

import (
	"context"
	"time"
)

type Job struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ExperienceLevel string     `json:"experienceLevel"`
	SalaryRange     string     `json:"salaryRange"`
	Location        string     `json:"location"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	PostedBy        string     `json:"postedBy"`
	Skills          []JobSkill `json:"skills,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type JobInput struct {
	Title           string     `json:"title" binding:"required,max=200"`
	Description     string     `json:"description" binding:"required"`
	ExperienceLevel string     `json:"experienceLevel" binding:"required"`
	SalaryRange     string     `json:"salaryRange"`
	Location        string     `json:"location" binding:"required"`
	Deadline        *time.Time `json:"deadline"`
	Skills          []string   `json:"skills" binding:"omitempty,dive,required,max=100"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage clamps a 1-based page and its size to the served range.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, limit, offset int) ([]Job, int64, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, posterID string, in JobInput) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, page, pageSize int) ([]Job, int64, error)
	UpdateJob(ctx context.Context, callerID, id string, in JobInput) (*Job, error)
	DeleteJob(ctx context.Context, callerID, id string) error
}
