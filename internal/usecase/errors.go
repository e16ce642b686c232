package usecase

import (
	"errors"
	"net/http"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/token"
)

var (
	errUserNotFound = apperror.New(http.StatusNotFound, apperror.KindUserNotFound, "User not found", nil)
	errJobNotFound  = apperror.New(http.StatusNotFound, apperror.KindJobNotFound, "Job not found", nil)
)

// tokenError separates expired tokens from malformed ones so clients can
// tell "request a new link" apart from "this link is broken".
func tokenError(err error, expiredMessage string) error {
	if errors.Is(err, token.ErrTokenExpired) {
		return apperror.New(http.StatusUnauthorized, apperror.KindTokenExpired, expiredMessage, err)
	}
	return apperror.New(http.StatusUnauthorized, apperror.KindInvalidToken, "Invalid token", err)
}

// notFoundOr turns domain.ErrNotFound into notFound and anything else into a 500.
func notFoundOr(err error, notFound *apperror.AppError) error {
	if errors.Is(err, domain.ErrNotFound) {
		return notFound
	}
	return apperror.Internal(err)
}
