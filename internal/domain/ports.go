package domain

import (
	"context"
	"io"
)

// Notifier delivers outbound email. A returned error means the message was not sent.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// PasswordHasher is a one-way salted hash with constant-time compare.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}

// FileStore holds resume blobs under opaque keys.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// LoginGuard throttles failed password attempts. Implementations fail open
// when their backing store is unavailable.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailure(ctx context.Context, email, ip string) (bool, error)
	Reset(ctx context.Context, email, ip string) error
}
