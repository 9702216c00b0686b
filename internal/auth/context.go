// Package auth defines the authentication context threaded through every
// gateway call.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/traitflow/traitflow/internal/domain"
)

// Context carries the bearer credential for one authenticated identity.
// It is created at login, shared read-only by all gateway calls issued under
// that identity, and discarded at logout. It is never stored globally.
type Context struct {
	Token    string
	Role     domain.Role
	Username string
}

// FromToken builds a Context by reading the role and subject claims from the
// bearer token. The signature is not verified here: the scoring service owns
// the signing key and remains the authoritative verifier, the claims are only
// input to the local policy pre-check.
func FromToken(token string) (*Context, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, domain.NewAuthError(fmt.Sprintf("malformed bearer token: %v", err))
	}

	role, _ := claims["role"].(string)
	switch domain.Role(role) {
	case domain.RoleCandidate, domain.RoleRecruiter:
	default:
		return nil, domain.NewAuthError("bearer token carries no known role claim")
	}

	sub, _ := claims.GetSubject()
	return &Context{Token: token, Role: domain.Role(role), Username: sub}, nil
}
