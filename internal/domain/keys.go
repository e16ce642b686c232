package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyPrincipal CtxKey = "Principal"
)

// Principal is the authenticated caller derived from a verified session token.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, KeyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(KeyPrincipal).(Principal)
	return p, ok && p.ID != ""
}

// Authorize is the single role policy used by the HTTP layer. An empty
// requiredRole means any authenticated principal.
func Authorize(principalRole, requiredRole string) bool {
	if requiredRole == "" {
		return principalRole != ""
	}
	return principalRole == requiredRole
}
