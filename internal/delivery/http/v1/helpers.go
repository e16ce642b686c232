package v1

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// resumeField is the multipart field carrying the PDF.
const resumeField = "resume"

// multipartOverhead is the slack allowed on top of the resume size limit for
// form boundaries and the other fields.
const multipartOverhead = 1 << 20

// principal returns the caller set by AuthMiddleware. Routes using it are
// always mounted behind that middleware.
func principal(c *gin.Context) domain.Principal {
	p, _ := domain.PrincipalFromContext(c.Request.Context())
	return p
}

// parseID canonicalises a path or form id. Anything that is not a UUID is
// rejected here so it never reaches a uuid column.
func parseID(raw, label string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperror.BadRequest(label + " must be a valid id")
	}
	return id.String(), nil
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return false
	}
	return true
}

// resumeUpload reads the resume part of a multipart request. A missing part
// yields an upload with no content, which the usecase rejects with its own
// message. The returned closer must be called once the upload is consumed.
func resumeUpload(c *gin.Context, maxBytes int64) (domain.ResumeUpload, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	file, header, err := c.Request.FormFile(resumeField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return domain.ResumeUpload{}, func() {}, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ResumeUpload{}, nil, apperror.BadRequest("File too large")
		}
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return domain.ResumeUpload{}, nil, apperror.BadRequest("File too large")
		}
		return domain.ResumeUpload{}, nil, apperror.BadRequest("Invalid multipart form")
	}

	upload := domain.ResumeUpload{
		FileName: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
	return upload, func() { _ = file.Close() }, nil
}
