package usecase_test

import (
	"context"
	"io"
	"testing"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/internal/usecase"
	"go-job-portal-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResumeUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("Should refuse a second upload", func(t *testing.T) {
		repo, store := new(MockResumeRepo), newMemStore()
		uc := usecase.NewResumeUsecase(repo, store, 1<<20)
		repo.On("GetByUserID", ctx, "u-1").Return(&domain.Resume{ID: "r-1"}, nil)

		_, err := uc.UploadResume(ctx, "u-1", pdfUpload())
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Should replace the blob on update", func(t *testing.T) {
		repo, store := new(MockResumeRepo), newMemStore()
		uc := usecase.NewResumeUsecase(repo, store, 1<<20)
		store.blobs["old.pdf"] = []byte("old")
		repo.On("Upsert", ctx, mock.AnythingOfType("*domain.Resume")).Return(&domain.Resume{FilePath: "old.pdf"}, nil)

		res, err := uc.UpdateResume(ctx, "u-1", pdfUpload())
		require.NoError(t, err)
		assert.Equal(t, "cv.pdf", res.FileName)
		assert.Equal(t, int64(len(samplePDF)), res.FileSize)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Should discard the blob when the row cannot be written", func(t *testing.T) {
		repo, store := new(MockResumeRepo), newMemStore()
		uc := usecase.NewResumeUsecase(repo, store, 1<<20)
		repo.On("Upsert", ctx, mock.Anything).Return(nil, errBoom)

		_, err := uc.UpdateResume(ctx, "u-1", pdfUpload())
		assert.Error(t, err)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Should enforce the size limit", func(t *testing.T) {
		uc := usecase.NewResumeUsecase(new(MockResumeRepo), newMemStore(), 16)
		_, err := uc.Stage(ctx, "u-1", pdfUpload())
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("Should stream the stored file", func(t *testing.T) {
		repo, store := new(MockResumeRepo), newMemStore()
		uc := usecase.NewResumeUsecase(repo, store, 1<<20)
		store.blobs["r.pdf"] = []byte(samplePDF)
		repo.On("GetByUserID", ctx, "u-1").Return(&domain.Resume{FilePath: "r.pdf", FileName: "cv.pdf"}, nil)

		res, rc, err := uc.OpenResume(ctx, "u-1")
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, samplePDF, string(data))
		assert.Equal(t, "cv.pdf", res.FileName)
	})

	t.Run("Should delete row and blob", func(t *testing.T) {
		repo, store := new(MockResumeRepo), newMemStore()
		uc := usecase.NewResumeUsecase(repo, store, 1<<20)
		store.blobs["r.pdf"] = []byte(samplePDF)
		repo.On("DeleteByUserID", ctx, "u-1").Return(&domain.Resume{FilePath: "r.pdf"}, nil)

		require.NoError(t, uc.DeleteResume(ctx, "u-1"))
		assert.Equal(t, 0, store.Len())
	})
}
