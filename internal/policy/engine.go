// Package policy evaluates role-based authorization for orchestration
// operations. The scoring service remains the authoritative enforcer; this is
// a local pre-check so misrouted requests fail before a network round-trip.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"github.com/traitflow/traitflow/internal/domain"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.assessment_policy.allow"),
		rego.Module("assessment_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Allow reports whether the given role may perform the given operation.
func (e *Engine) Allow(ctx context.Context, role domain.Role, op domain.Operation) (bool, error) {
	input := map[string]any{
		"role":      string(role),
		"operation": string(op),
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}

	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy returned non-boolean decision: %v", results[0].Expressions[0].Value)
	}
	return allowed, nil
}

// DefaultPolicy mirrors the scoring service's role claim checks: candidates
// drive their own assessment, recruiters read cross-candidate data.
const DefaultPolicy = `
package assessment_policy

import rego.v1

default allow := false

candidate_operations := {"start_session", "answer", "summary", "report"}

recruiter_operations := {"list_candidates", "trends", "compare"}

allow if {
	input.role == "candidate"
	input.operation in candidate_operations
}

allow if {
	input.role == "recruiter"
	input.operation in recruiter_operations
}
`
