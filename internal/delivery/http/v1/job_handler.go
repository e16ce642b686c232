package v1

import (
	"net/http"
	"strconv"

	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(protected *gin.RouterGroup, adminOnly gin.HandlerFunc, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.GET("/:id", handler.GetDetails)
		jobs.POST("", adminOnly, handler.Create)
		jobs.PUT("/:id", adminOnly, handler.Update)
		jobs.DELETE("/:id", adminOnly, handler.Delete)
	}
}

// CreateJob godoc
// @Summary      Create a job
// @Description  Creates a job posting and links its required skills (Admin only).
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.JobInput
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), principal(c).ID, req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// ListJobs godoc
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        page      query     int  false  "Page number"
// @Param        pageSize  query     int  false  "Page size"
// @Success      200       {object}  response.Response{data=response.Paginated}
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))

	page, pageSize = domain.NormalizePage(page, pageSize)

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs fetched", response.Paginated{
		Items:    jobs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetJob godoc
// @Summary      Job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Job id")
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job fetched", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Replaces the job fields. Skills are replaced only when the list is present.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string           true  "Job ID"
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Job id")
	if err != nil {
		c.Error(err)
		return
	}

	var req domain.JobInput
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), principal(c).ID, id, req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Job id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), principal(c).ID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted", nil)
}
