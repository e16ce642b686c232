package v1

import (
	"net/http"

	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC  domain.UserUsecase
	skillUC domain.SkillUsecase
}

func NewUserHandler(protected *gin.RouterGroup, adminOnly gin.HandlerFunc, userUC domain.UserUsecase, skillUC domain.SkillUsecase) {
	handler := &UserHandler{userUC: userUC, skillUC: skillUC}

	users := protected.Group("/users")
	{
		users.POST("/skills", handler.AddSkills)
		users.GET("/skills", handler.GetSkills)
		users.DELETE("/skills", handler.DeleteSkills)
		users.GET("/profile", handler.MyProfile)
		users.GET("/profile/:userId", handler.Profile)
		users.GET("/all", adminOnly, handler.ListAll)
	}
}

type AddSkillsRequest struct {
	Skills []domain.UserSkillInput `json:"skills" binding:"required,min=1,dive"`
}

type DeleteSkillsRequest struct {
	UserSkillIDs []string `json:"userSkillIds" binding:"required,min=1,dive,uuid"`
}

// AddSkills godoc
// @Summary      Add skills to the caller
// @Description  Unknown skill names are created. Skills the caller already holds are skipped.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        skills  body      AddSkillsRequest  true  "Skills"
// @Success      201     {object}  response.Response{data=[]domain.UserSkill}
// @Failure      400     {object}  response.Response
// @Router       /users/skills [post]
// @Security     BearerAuth
func (h *UserHandler) AddSkills(c *gin.Context) {
	var req AddSkillsRequest
	if !bindJSON(c, &req) {
		return
	}

	skills, err := h.skillUC.AddUserSkills(c.Request.Context(), principal(c).ID, req.Skills)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Skills added successfully", skills)
}

// GetSkills godoc
// @Summary      The caller's skills
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.UserSkill}
// @Router       /users/skills [get]
// @Security     BearerAuth
func (h *UserHandler) GetSkills(c *gin.Context) {
	skills, err := h.skillUC.GetUserSkills(c.Request.Context(), principal(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Skills fetched", skills)
}

// DeleteSkills godoc
// @Summary      Remove skills from the caller
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        skills  body      DeleteSkillsRequest  true  "User skill IDs"
// @Success      200     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /users/skills [delete]
// @Security     BearerAuth
func (h *UserHandler) DeleteSkills(c *gin.Context) {
	var req DeleteSkillsRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.skillUC.DeleteUserSkills(c.Request.Context(), principal(c).ID, req.UserSkillIDs); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Skills deleted successfully", nil)
}

// MyProfile godoc
// @Summary      The caller's profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Router       /users/profile [get]
// @Security     BearerAuth
func (h *UserHandler) MyProfile(c *gin.Context) {
	h.writeProfile(c, principal(c).ID)
}

// Profile godoc
// @Summary      A user's profile
// @Description  Callers may read their own profile; admins may read any.
// @Tags         users
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response{data=domain.UserProfile}
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /users/profile/{userId} [get]
// @Security     BearerAuth
func (h *UserHandler) Profile(c *gin.Context) {
	p := principal(c)
	userID, err := parseID(c.Param("userId"), "User id")
	if err != nil {
		c.Error(err)
		return
	}
	if userID != p.ID && !domain.Authorize(p.Role, domain.RoleAdmin) {
		c.Error(apperror.Forbidden("Cannot view another user's profile"))
		return
	}
	h.writeProfile(c, userID)
}

// ListAll godoc
// @Summary      All user profiles
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.UserProfile}
// @Failure      403  {object}  response.Response
// @Router       /users/all [get]
// @Security     BearerAuth
func (h *UserHandler) ListAll(c *gin.Context) {
	profiles, err := h.userUC.ListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Users fetched", profiles)
}

func (h *UserHandler) writeProfile(c *gin.Context, userID string) {
	profile, err := h.userUC.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User profile fetched", profile)
}
