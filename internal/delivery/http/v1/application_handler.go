package v1

import (
	"fmt"
	"net/http"
	"strings"

	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	appUC          domain.ApplicationUsecase
	maxResumeBytes int64
}

func NewApplicationHandler(protected *gin.RouterGroup, adminOnly gin.HandlerFunc, appUC domain.ApplicationUsecase, maxResumeBytes int64) {
	handler := &ApplicationHandler{appUC: appUC, maxResumeBytes: maxResumeBytes}

	apps := protected.Group("/job-application")
	{
		apps.POST("/apply", handler.Apply)
		apps.GET("/applied", handler.ListApplied)
		apps.DELETE("/:applicationId", handler.Withdraw)
		apps.GET("/application-status-data", handler.StatusCounts)

		apps.GET("/applicants/:jobId", adminOnly, handler.ListApplicants)
		apps.GET("/applicants/:jobId/export", adminOnly, handler.ExportApplicants)
		apps.POST("/application-status", adminOnly, handler.ChangeStatus)
		apps.GET("/application-count", adminOnly, handler.MonthlyCounts)
	}
}

// Apply godoc
// @Summary      Apply for a job
// @Description  Uploads the resume and records the application. The caller must hold every skill the job requires.
// @Tags         job-application
// @Accept       multipart/form-data
// @Produce      json
// @Param        jobId   formData  string  true  "Job ID"
// @Param        resume  formData  file    true  "Resume (PDF)"
// @Success      201     {object}  response.Response{data=domain.Application}
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /job-application/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	upload, done, err := resumeUpload(c, h.maxResumeBytes)
	if err != nil {
		c.Error(err)
		return
	}
	defer done()

	rawJobID := strings.TrimSpace(c.PostForm("jobId"))
	if rawJobID == "" {
		c.Error(apperror.BadRequest("Job id is required"))
		return
	}
	jobID, err := parseID(rawJobID, "Job id")
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.appUC.Apply(c.Request.Context(), principal(c).ID, jobID, upload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListApplied godoc
// @Summary      Jobs the caller applied to
// @Tags         job-application
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.AppliedJob}
// @Router       /job-application/applied [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplied(c *gin.Context) {
	jobs, err := h.appUC.ListApplied(c.Request.Context(), principal(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applied jobs fetched", jobs)
}

// Withdraw godoc
// @Summary      Withdraw an application
// @Tags         job-application
// @Produce      json
// @Param        applicationId  path      string  true  "Application ID"
// @Success      200            {object}  response.Response
// @Failure      400            {object}  response.Response
// @Failure      404            {object}  response.Response
// @Router       /job-application/{applicationId} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	applicationID, err := parseID(c.Param("applicationId"), "Application id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.appUC.Withdraw(c.Request.Context(), principal(c).ID, applicationID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application withdrawn", nil)
}

// ListApplicants godoc
// @Summary      Applicants for a job
// @Tags         job-application
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.Applicant}
// @Failure      403    {object}  response.Response
// @Router       /job-application/applicants/{jobId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	jobID, err := parseID(c.Param("jobId"), "Job id")
	if err != nil {
		c.Error(err)
		return
	}

	applicants, err := h.appUC.ListApplicants(c.Request.Context(), jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applicants fetched", applicants)
}

// ExportApplicants godoc
// @Summary      Export applicants as XLSX
// @Tags         job-application
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        jobId  path  string  true  "Job ID"
// @Success      200    {file}    binary
// @Failure      403    {object}  response.Response
// @Router       /job-application/applicants/{jobId}/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ExportApplicants(c *gin.Context) {
	jobID, err := parseID(c.Param("jobId"), "Job id")
	if err != nil {
		c.Error(err)
		return
	}

	data, name, err := h.appUC.ExportApplicants(c.Request.Context(), jobID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ChangeStatus godoc
// @Summary      Change an application's status
// @Description  Rejected requires a rejection message; other statuses clear it.
// @Tags         job-application
// @Accept       json
// @Produce      json
// @Param        change  body      domain.StatusChange  true  "Status change"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /job-application/application-status [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ChangeStatus(c *gin.Context) {
	var req domain.StatusChange
	if !bindJSON(c, &req) {
		return
	}

	if err := h.appUC.SetStatus(c.Request.Context(), principal(c).ID, req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", nil)
}

// StatusCounts godoc
// @Summary      The caller's applications by status
// @Tags         job-application
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.StatusCounts}
// @Router       /job-application/application-status-data [get]
// @Security     BearerAuth
func (h *ApplicationHandler) StatusCounts(c *gin.Context) {
	counts, err := h.appUC.StatusCounts(c.Request.Context(), principal(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status counts fetched", counts)
}

// MonthlyCounts godoc
// @Summary      Applications per month
// @Description  Twelve counts, January first, for the given UTC year.
// @Tags         job-application
// @Produce      json
// @Param        year  query     string  true  "Year"
// @Success      200   {object}  response.Response{data=[]int}
// @Failure      400   {object}  response.Response
// @Router       /job-application/application-count [get]
// @Security     BearerAuth
func (h *ApplicationHandler) MonthlyCounts(c *gin.Context) {
	counts, err := h.appUC.MonthlyCounts(c.Request.Context(), c.Query("year"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Monthly application counts fetched", counts[:])
}
