package v1

import (
	"net/http"
	"time"

	"go-job-portal-backend/config"
	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// sessionCookie is read by AuthMiddleware when no Authorization header is sent.
const sessionCookie = "auth_token"

type AuthHandler struct {
	authUC      domain.AuthUsecase
	twoFactorUC domain.TwoFactorUsecase
	config      *config.Config
}

// NewAuthHandler mounts the auth routes. rateLimited wraps the public routes
// that accept credentials.
func NewAuthHandler(public, protected *gin.RouterGroup, rateLimited gin.HandlerFunc, authUC domain.AuthUsecase, twoFactorUC domain.TwoFactorUsecase, cfg *config.Config) {
	handler := &AuthHandler{
		authUC:      authUC,
		twoFactorUC: twoFactorUC,
		config:      cfg,
	}

	publicAuth := public.Group("/auth")
	publicAuth.Use(rateLimited)
	{
		publicAuth.POST("/signup", handler.Signup)
		publicAuth.GET("/verify", handler.Verify)
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/login/verify-otp", handler.VerifyLoginOTP)
		publicAuth.POST("/forgot-password", handler.ForgotPassword)
		publicAuth.POST("/reset-password", handler.ResetPassword)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.GET("/check-role", handler.CheckRole)
		protectedAuth.POST("/enable-2fa", handler.EnableTwoFactor)
		protectedAuth.POST("/verify-otp", handler.VerifyOTP)
		protectedAuth.POST("/disable-2fa", handler.DisableTwoFactor)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

type LoginOTPRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// Signup godoc
// @Summary      Register a candidate
// @Description  Creates an unverified candidate account and emails a verification link.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signup  body      domain.SignupInput  true  "Signup details"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Failure      503     {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.Signup(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Signup successful. Check your email to verify your account.", user)
}

// Verify godoc
// @Summary      Verify an account
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Error(apperror.BadRequest("Token is required"))
		return
	}

	if err := h.authUC.VerifyUser(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User verified successfully", nil)
}

// Login godoc
// @Summary      Log in
// @Description  Returns a session token, or a short-lived two-factor token when 2FA is enabled.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=domain.LoginResult}
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}

	if result.TwoFactorPending {
		response.Success(c, http.StatusOK, "Redirect to OTP verification", result)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// VerifyLoginOTP godoc
// @Summary      Complete a two-factor login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        otp  body      LoginOTPRequest  true  "Two-factor token and TOTP code"
// @Success      200  {object}  response.Response{data=domain.LoginResult}
// @Failure      401  {object}  response.Response
// @Router       /auth/login/verify-otp [post]
func (h *AuthHandler) VerifyLoginOTP(c *gin.Context) {
	var req LoginOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.VerifyTwoFactorLogin(c.Request.Context(), req.Token, req.Code)
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// ForgotPassword godoc
// @Summary      Request a password reset link
// @Description  Always answers 200 so account existence is not disclosed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ForgotPasswordRequest  true  "Account email"
// @Success      200      {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "If the account exists, a reset link has been sent", nil)
}

// ResetPassword godoc
// @Summary      Reset a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ResetPasswordRequest  true  "Reset token and new password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Password reset successfully", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.Me(c.Request.Context(), principal(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User profile fetched", user)
}

// CheckRole godoc
// @Summary      Role of the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/check-role [get]
// @Security     BearerAuth
func (h *AuthHandler) CheckRole(c *gin.Context) {
	p := principal(c)
	response.Success(c, http.StatusOK, "Role fetched", gin.H{"role": p.Role})
}

// EnableTwoFactor godoc
// @Summary      Enroll in two-factor authentication
// @Description  Generates a fresh TOTP secret and returns it with a QR code data URL.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.TwoFactorEnrollment}
// @Router       /auth/enable-2fa [post]
// @Security     BearerAuth
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	enrollment, err := h.twoFactorUC.GenerateSecret(c.Request.Context(), principal(c).ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Two-factor authentication enabled", enrollment)
}

// VerifyOTP godoc
// @Summary      Check a TOTP code for the current user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        otp  body      OTPRequest  true  "TOTP code"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/verify-otp [post]
// @Security     BearerAuth
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req OTPRequest
	if !bindJSON(c, &req) {
		return
	}

	valid, err := h.twoFactorUC.VerifyCode(c.Request.Context(), principal(c).ID, req.Code)
	if err != nil {
		c.Error(err)
		return
	}
	if !valid {
		c.Error(apperror.New(http.StatusUnauthorized, apperror.KindInvalidTwoFactorCode, "Invalid two-factor code", nil))
		return
	}

	response.Success(c, http.StatusOK, "Code verified", gin.H{"valid": true})
}

// DisableTwoFactor godoc
// @Summary      Disable two-factor authentication
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/disable-2fa [post]
// @Security     BearerAuth
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	if err := h.twoFactorUC.Disable(c.Request.Context(), principal(c).ID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Two-factor authentication disabled", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	secure := h.config != nil && h.config.Environment == "production"
	maxAge := int((24 * time.Hour).Seconds())
	if h.config != nil && h.config.SessionTokenTTL > 0 {
		maxAge = int(h.config.SessionTokenTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", secure, true)
}
