package domain

import (
	"context"
	"io"
	"time"
)

// ResumeContentType is the only accepted resume format.
const ResumeContentType = "application/pdf"

type Resume struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FileName  string    `json:"fileName"`
	FilePath  string    `json:"-"`
	FileSize  int64     `json:"fileSize"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResumeUpload is an uploaded file before it reaches the blob store.
type ResumeUpload struct {
	FileName string
	Size     int64
	Content  io.Reader
}

type ResumeRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Resume, error)
	// Upsert returns the previous row when one was replaced.
	Upsert(ctx context.Context, resume *Resume) (*Resume, error)
	DeleteByUserID(ctx context.Context, userID string) (*Resume, error)
}

type ResumeUsecase interface {
	GetResume(ctx context.Context, userID string) (*Resume, error)
	UploadResume(ctx context.Context, userID string, file ResumeUpload) (*Resume, error)
	UpdateResume(ctx context.Context, userID string, file ResumeUpload) (*Resume, error)
	DeleteResume(ctx context.Context, userID string) error
	OpenResume(ctx context.Context, userID string) (*Resume, io.ReadCloser, error)
	// Stage validates and stores the blob without touching the resume row.
	Stage(ctx context.Context, userID string, file ResumeUpload) (*Resume, error)
	Discard(ctx context.Context, resume *Resume)
}
