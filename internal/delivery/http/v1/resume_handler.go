package v1

import (
	"fmt"
	"io"
	"net/http"

	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumeUC       domain.ResumeUsecase
	maxResumeBytes int64
}

func NewResumeHandler(protected *gin.RouterGroup, resumeUC domain.ResumeUsecase, maxResumeBytes int64) {
	handler := &ResumeHandler{resumeUC: resumeUC, maxResumeBytes: maxResumeBytes}

	resume := protected.Group("/resume")
	{
		resume.GET("", handler.Get)
		resume.GET("/download", handler.Download)
		resume.POST("/upload", handler.Upload)
		resume.PUT("/update", handler.Update)
		resume.DELETE("/delete", handler.Delete)
	}
}

// GetResume godoc
// @Summary      The caller's resume metadata
// @Tags         resume
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      404  {object}  response.Response
// @Router       /resume [get]
// @Security     BearerAuth
func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumeUC.GetResume(c.Request.Context(), principal(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume fetched", resume)
}

// DownloadResume godoc
// @Summary      Download the caller's resume
// @Tags         resume
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /resume/download [get]
// @Security     BearerAuth
func (h *ResumeHandler) Download(c *gin.Context) {
	resume, body, err := h.resumeUC.OpenResume(c.Request.Context(), principal(c).ID)
	if err != nil {
		c.Error(err)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resume.FileName))
	c.Header("Content-Type", domain.ResumeContentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

// UploadResume godoc
// @Summary      Upload a resume
// @Description  Fails with 409 when the caller already has one; use update instead.
// @Tags         resume
// @Accept       multipart/form-data
// @Produce      json
// @Param        resume  formData  file  true  "Resume (PDF)"
// @Success      201     {object}  response.Response{data=domain.Resume}
// @Failure      400     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /resume/upload [post]
// @Security     BearerAuth
func (h *ResumeHandler) Upload(c *gin.Context) {
	upload, done, err := resumeUpload(c, h.maxResumeBytes)
	if err != nil {
		c.Error(err)
		return
	}
	defer done()

	resume, err := h.resumeUC.UploadResume(c.Request.Context(), principal(c).ID, upload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Resume uploaded successfully", resume)
}

// UpdateResume godoc
// @Summary      Replace the caller's resume
// @Tags         resume
// @Accept       multipart/form-data
// @Produce      json
// @Param        resume  formData  file  true  "Resume (PDF)"
// @Success      200     {object}  response.Response{data=domain.Resume}
// @Failure      400     {object}  response.Response
// @Router       /resume/update [put]
// @Security     BearerAuth
func (h *ResumeHandler) Update(c *gin.Context) {
	upload, done, err := resumeUpload(c, h.maxResumeBytes)
	if err != nil {
		c.Error(err)
		return
	}
	defer done()

	resume, err := h.resumeUC.UpdateResume(c.Request.Context(), principal(c).ID, upload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume updated successfully", resume)
}

// DeleteResume godoc
// @Summary      Delete the caller's resume
// @Tags         resume
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resume/delete [delete]
// @Security     BearerAuth
func (h *ResumeHandler) Delete(c *gin.Context) {
	if err := h.resumeUC.DeleteResume(c.Request.Context(), principal(c).ID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume deleted successfully", nil)
}
