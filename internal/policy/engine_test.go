package policy

import (
	"context"
	"testing"

	"github.com/traitflow/traitflow/internal/domain"
)

func TestDefaultPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	cases := []struct {
		role domain.Role
		op   domain.Operation
		want bool
	}{
		{domain.RoleCandidate, domain.OperationStartSession, true},
		{domain.RoleCandidate, domain.OperationAnswer, true},
		{domain.RoleCandidate, domain.OperationSummary, true},
		{domain.RoleCandidate, domain.OperationReport, true},
		{domain.RoleCandidate, domain.OperationTrends, false},
		{domain.RoleCandidate, domain.OperationListCandidates, false},
		{domain.RoleCandidate, domain.OperationCompare, false},
		{domain.RoleRecruiter, domain.OperationListCandidates, true},
		{domain.RoleRecruiter, domain.OperationTrends, true},
		{domain.RoleRecruiter, domain.OperationCompare, true},
		{domain.RoleRecruiter, domain.OperationStartSession, false},
		{domain.RoleRecruiter, domain.OperationAnswer, false},
		{domain.Role("admin"), domain.OperationTrends, false},
		{domain.Role(""), domain.OperationAnswer, false},
	}
	for _, tc := range cases {
		got, err := engine.Allow(ctx, tc.role, tc.op)
		if err != nil {
			t.Fatalf("Allow(%s, %s) failed: %v", tc.role, tc.op, err)
		}
		if got != tc.want {
			t.Fatalf("Allow(%s, %s) = %v, want %v", tc.role, tc.op, got, tc.want)
		}
	}
}

func TestNewEngineRejectsBadPolicy(t *testing.T) {
	if _, err := NewEngine(context.Background(), "package broken {"); err == nil {
		t.Fatalf("expected error for malformed policy")
	}
}
