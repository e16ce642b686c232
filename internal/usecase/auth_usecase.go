package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/email"
	"go-job-portal-backend/pkg/logger"
	"go-job-portal-backend/pkg/security"
	"go-job-portal-backend/pkg/token"

	"github.com/google/uuid"
)

// AuthConfig holds the outward-facing bits of the auth flows.
type AuthConfig struct {
	AppName          string
	VerifyUserURL    string
	ResetPasswordURL string
}

type authUsecase struct {
	userRepo domain.UserRepository
	roleRepo domain.RoleRepository
	hasher   domain.PasswordHasher
	notifier domain.Notifier
	tokens   *token.Service
	guard    domain.LoginGuard
	audit    *security.SecurityLogger
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	hasher domain.PasswordHasher,
	notifier domain.Notifier,
	tokens *token.Service,
	guard domain.LoginGuard,
	audit *security.SecurityLogger,
	cfg AuthConfig,
) domain.AuthUsecase {
	if audit == nil {
		audit = security.NopLogger()
	}
	return &authUsecase{
		userRepo: userRepo,
		roleRepo: roleRepo,
		hasher:   hasher,
		notifier: notifier,
		tokens:   tokens,
		guard:    guard,
		audit:    audit,
		cfg:      cfg,
		now:      time.Now,
	}
}

var (
	errInvalidCredentials = apperror.Unauthorized("Invalid email or password")
	errAccountLocked      = apperror.New(http.StatusTooManyRequests, apperror.KindAccountLocked,
		"Too many failed login attempts. Please try again later.", nil)
)

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Signup creates an Unauthorized candidate and mails a verification link.
// A repeated signup for a still-unverified email only resends the link.
func (u *authUsecase) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	existing, err := u.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.Status == domain.UserStatusAuthorized:
		return nil, apperror.Conflict("User already exists").WithKind(apperror.KindDuplicateIdentity)
	case err == nil:
		if err := u.sendVerification(ctx, existing); err != nil {
			return nil, apperror.ServiceUnavailable("Failed to send verification email", err)
		}
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	role, err := u.roleRepo.GetByName(ctx, domain.RoleCandidate)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: hash,
		Status:       domain.UserStatusUnauthorized,
		RoleID:       role.ID,
		Role:         role.Name,
		IsPopup:      true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("User already exists").WithKind(apperror.KindDuplicateIdentity)
		}
		return nil, apperror.Internal(err)
	}

	if err := u.sendVerification(ctx, user); err != nil {
		if delErr := u.userRepo.Delete(ctx, user.ID); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
			logger.Log.Error("Failed to roll back user after email failure", "user_id", user.ID, "error", delErr)
		}
		return nil, apperror.ServiceUnavailable("Failed to send verification email", err)
	}

	return user, nil
}

func (u *authUsecase) sendVerification(ctx context.Context, user *domain.User) error {
	tok, err := u.tokens.Issue(token.Claims{UserID: user.ID, Email: user.Email}, token.PurposeVerification)
	if err != nil {
		return err
	}
	subject, body, err := email.VerificationEmail(u.cfg.AppName, u.cfg.VerifyUserURL+tok, u.tokens.TTL(token.PurposeVerification))
	if err != nil {
		return err
	}
	return u.notifier.Send(ctx, []string{user.Email}, subject, body)
}

// VerifyUser is idempotent for already verified users. A user removed by the
// reaper fails with USER_NOT_FOUND.
func (u *authUsecase) VerifyUser(ctx context.Context, verificationToken string) error {
	claims, err := u.tokens.VerifyPurpose(verificationToken, token.PurposeVerification)
	if err != nil {
		return tokenError(err, "Verification link has expired, please request a new one")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return notFoundOr(err, errUserNotFound)
	}
	if user.Status == domain.UserStatusAuthorized {
		return nil
	}

	if err := u.userRepo.SetStatus(ctx, user.ID, domain.UserStatusAuthorized); err != nil {
		return notFoundOr(err, errUserNotFound)
	}
	return nil
}

func (u *authUsecase) Login(ctx context.Context, emailAddr, password, ip string) (*domain.LoginResult, error) {
	emailAddr = normalizeEmail(emailAddr)

	blocked, err := u.guard.IsBlocked(ctx, emailAddr, ip)
	if err != nil {
		logger.Log.Warn("Login guard unavailable", "error", err)
	}
	if blocked {
		u.audit.LogLoginBlocked(ctx, emailAddr, ip)
		return nil, errAccountLocked
	}

	user, err := u.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, u.loginFailed(ctx, emailAddr, ip, "unknown_email")
		}
		return nil, apperror.Internal(err)
	}

	if !u.hasher.Compare(password, user.PasswordHash) {
		return nil, u.loginFailed(ctx, emailAddr, ip, "wrong_password")
	}

	if user.Status != domain.UserStatusAuthorized {
		u.audit.LogUserEvent(ctx, security.EventUnverifiedLogin, user.ID, nil)
		if err := u.sendVerification(ctx, user); err != nil {
			logger.Log.Error("Failed to resend verification email", "user_id", user.ID, "error", err)
		}
		return nil, apperror.New(http.StatusUnauthorized, apperror.KindAccountUnverified,
			"Email not verified. A new verification link has been sent.", nil)
	}

	if err := u.guard.Reset(ctx, emailAddr, ip); err != nil {
		logger.Log.Warn("Failed to reset login attempts", "error", err)
	}

	if user.TwoFactorEnabled {
		tok, err := u.tokens.Issue(token.Claims{UserID: user.ID, Email: user.Email}, token.PurposeTwoFactor)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.LoginResult{
			Token:            tok,
			Role:             user.Role,
			TwoFactorEnabled: true,
			IsPopup:          user.IsPopup,
			TwoFactorPending: true,
		}, nil
	}

	return u.sessionResult(ctx, user)
}

func (u *authUsecase) loginFailed(ctx context.Context, emailAddr, ip, reason string) error {
	u.audit.LogLoginFailed(ctx, emailAddr, ip, reason)
	locked, err := u.guard.RecordFailure(ctx, emailAddr, ip)
	if err != nil {
		logger.Log.Warn("Failed to record login failure", "error", err)
	}
	if locked {
		return errAccountLocked
	}
	return errInvalidCredentials
}

func (u *authUsecase) sessionResult(ctx context.Context, user *domain.User) (*domain.LoginResult, error) {
	tok, err := u.tokens.Issue(token.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, token.PurposeSession)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.audit.LogUserEvent(ctx, security.EventLoginSuccess, user.ID, nil)
	return &domain.LoginResult{
		Token:            tok,
		Role:             user.Role,
		TwoFactorEnabled: user.TwoFactorEnabled,
		IsPopup:          user.IsPopup,
	}, nil
}

// VerifyTwoFactorLogin exchanges a two_factor token plus a TOTP code for a session.
func (u *authUsecase) VerifyTwoFactorLogin(ctx context.Context, twoFactorToken, code string) (*domain.LoginResult, error) {
	claims, err := u.tokens.VerifyPurpose(twoFactorToken, token.PurposeTwoFactor)
	if err != nil {
		return nil, tokenError(err, "Two-factor session expired, please log in again")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFoundOr(err, errUserNotFound)
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == nil {
		return nil, errNotEnrolled
	}
	if !validateTOTP(*user.TwoFactorSecret, code, u.now()) {
		u.audit.LogUserEvent(ctx, security.EventTwoFactorFailed, user.ID, map[string]interface{}{"stage": "login"})
		return nil, errInvalidCode
	}

	return u.sessionResult(ctx, user)
}

// ForgotPassword answers unknown emails exactly like known ones.
func (u *authUsecase) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return apperror.Internal(err)
	}

	tok, err := u.tokens.Issue(token.Claims{UserID: user.ID, Email: user.Email}, token.PurposeReset)
	if err != nil {
		return apperror.Internal(err)
	}
	subject, body, err := email.PasswordResetEmail(u.cfg.AppName, u.cfg.ResetPasswordURL+tok, u.tokens.TTL(token.PurposeReset))
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.notifier.Send(ctx, []string{user.Email}, subject, body); err != nil {
		return apperror.ServiceUnavailable("Failed to send password reset email", err)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.BadRequest("Password must be at least 8 characters")
	}

	claims, err := u.tokens.VerifyPurpose(resetToken, token.PurposeReset)
	if err != nil {
		return tokenError(err, "Reset link has expired, please request a new one")
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.userRepo.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		return notFoundOr(err, errUserNotFound)
	}

	u.audit.LogUserEvent(ctx, security.EventPasswordReset, claims.UserID, nil)
	return nil
}

// Authenticate derives the principal from a session token without touching the store.
func (u *authUsecase) Authenticate(_ context.Context, sessionToken string) (*domain.Principal, error) {
	claims, err := u.tokens.VerifyPurpose(sessionToken, token.PurposeSession)
	if err != nil {
		return nil, tokenError(err, "Session expired, please log in again")
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, apperror.New(http.StatusUnauthorized, apperror.KindInvalidToken, "Invalid token", nil)
	}
	return &domain.Principal{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

func (u *authUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, errUserNotFound)
	}
	return user, nil
}
