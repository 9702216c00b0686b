package helpers

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// SignedToken mints a bearer token shaped like the scoring service's: HS256
// with the identity in sub and the role as a top-level claim.
func SignedToken(t *testing.T, username, role string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": role,
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}
