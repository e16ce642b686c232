package domain

import "context"

type SignupInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required,valid_mobile"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginResult struct {
	Token            string `json:"token"`
	Role             string `json:"role"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	IsPopup          bool   `json:"isPopup"`
	// TwoFactorPending is set when Token is a short-lived two-factor token
	// that must be exchanged through VerifyTwoFactorLogin.
	TwoFactorPending bool `json:"twoFactorPending"`
}

type TwoFactorEnrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
	QRCode          string `json:"qrCode"`
}

type AuthUsecase interface {
	Signup(ctx context.Context, in SignupInput) (*User, error)
	VerifyUser(ctx context.Context, verificationToken string) error
	Login(ctx context.Context, email, password, ip string) (*LoginResult, error)
	VerifyTwoFactorLogin(ctx context.Context, twoFactorToken, code string) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	Authenticate(ctx context.Context, sessionToken string) (*Principal, error)
	Me(ctx context.Context, userID string) (*User, error)
}

type TwoFactorUsecase interface {
	GenerateSecret(ctx context.Context, userID string) (*TwoFactorEnrollment, error)
	VerifyCode(ctx context.Context, userID, code string) (bool, error)
	Disable(ctx context.Context, userID string) error
}
