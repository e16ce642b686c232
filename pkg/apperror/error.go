package apperror

import (
	"errors"
	"net/http"
)

// Kind is the stable, machine-checkable error identifier returned to clients.
type Kind string

const (
	KindValidation           Kind = "VALIDATION_ERROR"
	KindNotFound             Kind = "NOT_FOUND"
	KindJobNotFound          Kind = "JOB_NOT_FOUND"
	KindUserNotFound         Kind = "USER_NOT_FOUND"
	KindConflict             Kind = "CONFLICT"
	KindAlreadyApplied       Kind = "ALREADY_APPLIED"
	KindDuplicateIdentity    Kind = "DUPLICATE_IDENTITY"
	KindSkillMismatch        Kind = "SKILL_MISMATCH"
	KindUnauthorized         Kind = "UNAUTHORIZED"
	KindInvalidToken         Kind = "INVALID_TOKEN"
	KindTokenExpired         Kind = "TOKEN_EXPIRED"
	KindAccountUnverified    Kind = "ACCOUNT_UNVERIFIED"
	KindAccountLocked        Kind = "ACCOUNT_LOCKED"
	KindForbidden            Kind = "FORBIDDEN"
	KindTwoFactorNotEnrolled Kind = "TWO_FACTOR_NOT_ENROLLED"
	KindInvalidTwoFactorCode Kind = "INVALID_TWO_FACTOR_CODE"
	KindExternalService      Kind = "EXTERNAL_SERVICE_FAILURE"
	KindRateLimited          Kind = "RATE_LIMITED"
	KindInternal             Kind = "INTERNAL_ERROR"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithKind returns a copy of e carrying a more specific kind.
func (e *AppError) WithKind(kind Kind) *AppError {
	cp := *e
	cp.Kind = kind
	return &cp
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, KindForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, KindConflict, message, nil)
}

// ServiceUnavailable reports a failed external collaborator (mail, blob store).
func ServiceUnavailable(message string, err error) *AppError {
	return New(http.StatusServiceUnavailable, KindExternalService, message, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
