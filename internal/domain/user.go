package domain

import (
	"context"
	"time"
)

type UserStatus string

const (
	UserStatusUnauthorized UserStatus = "Unauthorized"
	UserStatusAuthorized   UserStatus = "Authorized"
)

// Role names seeded at startup.
const (
	RoleCandidate = "Candidate"
	RoleAdmin     = "Admin"
)

type Role struct {
	ID   string `json:"id"`
	Name string `json:"role"`
}

type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Mobile           string     `json:"mobile"`
	PasswordHash     string     `json:"-"`
	Status           UserStatus `json:"status"`
	RoleID           string     `json:"roleId"`
	Role             string     `json:"role,omitempty"` // joined from roles
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	TwoFactorSecret  *string    `json:"-"`
	IsPopup          bool       `json:"isPopup"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// UserProfile is a user with the records it owns, as shown to recruiters.
type UserProfile struct {
	User   *User       `json:"user"`
	Skills []UserSkill `json:"skills"`
	Resume *Resume     `json:"resume,omitempty"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	SetStatus(ctx context.Context, id string, status UserStatus) error
	SetTwoFactor(ctx context.Context, id string, secret *string, enabled bool) error
	SetPopup(ctx context.Context, id string, isPopup bool) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	DeleteUnauthorizedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Ensure(ctx context.Context, name string) (*Role, error)
}

type UserUsecase interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	ListProfiles(ctx context.Context) ([]UserProfile, error)
}
