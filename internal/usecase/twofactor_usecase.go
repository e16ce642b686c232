package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"net/http"
	"time"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/security"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	errNotEnrolled = apperror.New(http.StatusBadRequest, apperror.KindTwoFactorNotEnrolled,
		"Two-factor authentication is not enabled", nil)
	errInvalidCode = apperror.New(http.StatusUnauthorized, apperror.KindInvalidTwoFactorCode,
		"Invalid two-factor code", nil)
)

const qrSize = 256

// validateTOTP accepts codes from the current 30s step and one step either side.
func validateTOTP(secret, code string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at.UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

type twoFactorUsecase struct {
	userRepo domain.UserRepository
	issuer   string
	audit    *security.SecurityLogger
	now      func() time.Time
}

func NewTwoFactorUsecase(userRepo domain.UserRepository, issuer string, audit *security.SecurityLogger) domain.TwoFactorUsecase {
	if audit == nil {
		audit = security.NopLogger()
	}
	return &twoFactorUsecase{userRepo: userRepo, issuer: issuer, audit: audit, now: time.Now}
}

// GenerateSecret replaces any existing secret and enables 2FA immediately.
func (u *twoFactorUsecase) GenerateSecret(ctx context.Context, userID string) (*domain.TwoFactorEnrollment, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, errUserNotFound)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      u.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperror.Internal(err)
	}

	secret := key.Secret()
	if err := u.userRepo.SetTwoFactor(ctx, user.ID, &secret, true); err != nil {
		return nil, notFoundOr(err, errUserNotFound)
	}
	u.audit.LogUserEvent(ctx, security.EventTwoFactorEnabled, user.ID, nil)

	return &domain.TwoFactorEnrollment{
		Secret:          secret,
		ProvisioningURI: key.URL(),
		QRCode:          "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func (u *twoFactorUsecase) VerifyCode(ctx context.Context, userID, code string) (bool, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, notFoundOr(err, errUserNotFound)
	}
	if user.TwoFactorSecret == nil || *user.TwoFactorSecret == "" {
		return false, errNotEnrolled
	}

	ok := validateTOTP(*user.TwoFactorSecret, code, u.now())
	if !ok {
		u.audit.LogUserEvent(ctx, security.EventTwoFactorFailed, user.ID, nil)
	}
	return ok, nil
}

// Disable clears the secret and also turns off the enrollment popup.
func (u *twoFactorUsecase) Disable(ctx context.Context, userID string) error {
	if err := u.userRepo.SetTwoFactor(ctx, userID, nil, false); err != nil {
		return notFoundOr(err, errUserNotFound)
	}
	if err := u.userRepo.SetPopup(ctx, userID, false); err != nil {
		return notFoundOr(err, errUserNotFound)
	}
	u.audit.LogUserEvent(ctx, security.EventTwoFactorDisabled, userID, nil)
	return nil
}
