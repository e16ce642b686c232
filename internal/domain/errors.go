package domain

import "errors"

// Repository sentinels; usecases translate them into apperror values.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)
