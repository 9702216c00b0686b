package auth_test

import (
	"testing"

	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/domain"
	"github.com/traitflow/traitflow/tests/helpers"
)

func TestFromToken(t *testing.T) {
	token := helpers.SignedToken(t, "alice", "candidate")

	ac, err := auth.FromToken(token)
	if err != nil {
		t.Fatalf("FromToken failed: %v", err)
	}
	if ac.Role != domain.RoleCandidate {
		t.Fatalf("unexpected role: %s", ac.Role)
	}
	if ac.Username != "alice" {
		t.Fatalf("unexpected username: %s", ac.Username)
	}
	if ac.Token != token {
		t.Fatalf("context must carry the original token")
	}
}

func TestFromTokenRecruiter(t *testing.T) {
	ac, err := auth.FromToken(helpers.SignedToken(t, "bob", "recruiter"))
	if err != nil {
		t.Fatalf("FromToken failed: %v", err)
	}
	if ac.Role != domain.RoleRecruiter {
		t.Fatalf("unexpected role: %s", ac.Role)
	}
}

func TestFromTokenUnknownRole(t *testing.T) {
	_, err := auth.FromToken(helpers.SignedToken(t, "eve", "admin"))
	if !domain.IsKind(err, domain.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestFromTokenMalformed(t *testing.T) {
	_, err := auth.FromToken("not-a-jwt")
	if !domain.IsKind(err, domain.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}
