package usecase

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/logger"
	"go-job-portal-backend/pkg/security"
	"go-job-portal-backend/pkg/storage"

	"github.com/google/uuid"
)

var errResumeNotFound = apperror.NotFound("Resume not found")

type resumeUsecase struct {
	resumeRepo domain.ResumeRepository
	store      domain.FileStore
	maxBytes   int64
}

func NewResumeUsecase(resumeRepo domain.ResumeRepository, store domain.FileStore, maxBytes int64) domain.ResumeUsecase {
	return &resumeUsecase{resumeRepo: resumeRepo, store: store, maxBytes: maxBytes}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, security.ErrExtension), errors.Is(err, security.ErrContentMismatch):
		return apperror.BadRequest("Only PDF files are allowed")
	case errors.Is(err, security.ErrEmptyFile):
		return apperror.BadRequest("Uploaded file is empty")
	case errors.Is(err, security.ErrFileTooLarge):
		return apperror.BadRequest("Resume exceeds the maximum allowed size")
	}
	return apperror.ServiceUnavailable("Failed to store resume", err)
}

// Stage validates the upload and writes it under a fresh key. The returned
// Resume is not persisted; callers either store it or Discard it.
func (u *resumeUsecase) Stage(ctx context.Context, userID string, file domain.ResumeUpload) (*domain.Resume, error) {
	if file.Content == nil {
		return nil, apperror.BadRequest("No resume uploaded")
	}
	if u.maxBytes > 0 && file.Size > u.maxBytes {
		return nil, uploadError(security.ErrFileTooLarge)
	}

	body, _, err := security.ValidatePDF(file.FileName, file.Content, u.maxBytes)
	if err != nil {
		return nil, uploadError(err)
	}

	id := uuid.NewString()
	counter := &countingReader{r: body}
	path, err := u.store.Save(ctx, id+".pdf", counter, file.Size, domain.ResumeContentType)
	if err != nil {
		return nil, uploadError(err)
	}

	return &domain.Resume{
		ID:       id,
		UserID:   userID,
		FileName: filepath.Base(file.FileName),
		FilePath: path,
		FileSize: counter.n,
	}, nil
}

// Discard removes a staged or replaced blob. Failures only leave an orphan blob.
func (u *resumeUsecase) Discard(ctx context.Context, resume *domain.Resume) {
	if resume == nil || resume.FilePath == "" {
		return
	}
	if err := u.store.Delete(ctx, resume.FilePath); err != nil {
		logger.Log.Warn("Failed to delete resume blob", "path", resume.FilePath, "error", err)
	}
}

func (u *resumeUsecase) GetResume(ctx context.Context, userID string) (*domain.Resume, error) {
	resume, err := u.resumeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, errResumeNotFound)
	}
	return resume, nil
}

func (u *resumeUsecase) UploadResume(ctx context.Context, userID string, file domain.ResumeUpload) (*domain.Resume, error) {
	_, err := u.resumeRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, apperror.Conflict("You already have a resume uploaded")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	return u.save(ctx, userID, file)
}

// UpdateResume uploads or replaces.
func (u *resumeUsecase) UpdateResume(ctx context.Context, userID string, file domain.ResumeUpload) (*domain.Resume, error) {
	return u.save(ctx, userID, file)
}

func (u *resumeUsecase) save(ctx context.Context, userID string, file domain.ResumeUpload) (*domain.Resume, error) {
	staged, err := u.Stage(ctx, userID, file)
	if err != nil {
		return nil, err
	}

	prev, err := u.resumeRepo.Upsert(ctx, staged)
	if err != nil {
		u.Discard(ctx, staged)
		return nil, notFoundOr(err, errUserNotFound)
	}
	if prev != nil && prev.FilePath != staged.FilePath {
		u.Discard(ctx, prev)
	}
	return staged, nil
}

func (u *resumeUsecase) DeleteResume(ctx context.Context, userID string) error {
	deleted, err := u.resumeRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return notFoundOr(err, errResumeNotFound)
	}
	u.Discard(ctx, deleted)
	return nil
}

// OpenResume returns the metadata and a reader the caller must close.
func (u *resumeUsecase) OpenResume(ctx context.Context, userID string) (*domain.Resume, io.ReadCloser, error) {
	resume, err := u.GetResume(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := u.store.Open(ctx, resume.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperror.NotFound("Resume file not found")
		}
		return nil, nil, apperror.ServiceUnavailable("Failed to read resume", err)
	}
	return resume, rc, nil
}
