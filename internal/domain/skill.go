package domain

import (
	"context"
	"time"
)

// Skill names are unique case-insensitively; the first spelling seen is kept.
type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserSkill struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	SkillID          string `json:"skillId"`
	SkillName        string `json:"skillName"`
	ProficiencyLevel int    `json:"proficiencyLevel"`
}

type JobSkill struct {
	ID        string `json:"id"`
	JobID     string `json:"jobId"`
	SkillID   string `json:"skillId"`
	SkillName string `json:"skillName"`
}

type UserSkillInput struct {
	SkillName        string `json:"skillName" binding:"required,max=100"`
	ProficiencyLevel int    `json:"proficiencyLevel" binding:"required,proficiency"`
}

type SkillRepository interface {
	// FindOrCreate is an upsert on the normalized name.
	FindOrCreate(ctx context.Context, name string) (*Skill, error)
	ListJobSkills(ctx context.Context, jobID string) ([]JobSkill, error)
	ListUserSkills(ctx context.Context, userID string) ([]UserSkill, error)
	AssociateJobSkill(ctx context.Context, jobID, skillID string) error
	ReplaceJobSkills(ctx context.Context, jobID string, skillIDs []string) error
	// AssociateUserSkill reports false when the pair already existed.
	AssociateUserSkill(ctx context.Context, userID, skillID string, proficiencyLevel int) (bool, error)
	DeleteUserSkills(ctx context.Context, userID string, userSkillIDs []string) (int64, error)
}

type SkillUsecase interface {
	FindOrCreate(ctx context.Context, name string) (*Skill, error)
	AddUserSkills(ctx context.Context, userID string, skills []UserSkillInput) ([]UserSkill, error)
	GetUserSkills(ctx context.Context, userID string) ([]UserSkill, error)
	DeleteUserSkills(ctx context.Context, userID string, userSkillIDs []string) error
	SetJobSkills(ctx context.Context, jobID string, names []string, replace bool) ([]JobSkill, error)
}
