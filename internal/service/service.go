// Package service wires the session orchestrators, the scoring service
// gateway, the archive, and the role policy together behind one API surface.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/traitflow/traitflow/internal/aggregate"
	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/config"
	"github.com/traitflow/traitflow/internal/domain"
	"github.com/traitflow/traitflow/internal/policy"
	"github.com/traitflow/traitflow/internal/repository"
	"github.com/traitflow/traitflow/internal/session"
)

// ErrSessionNotFound reports an unknown or already-discarded session id.
var ErrSessionNotFound = errors.New("session not found")

// Gateway is the full scoring service surface the service depends on.
type Gateway interface {
	Authenticate(ctx context.Context, username, password string, role domain.Role) (string, error)
	DownloadReport(ctx context.Context, ac *auth.Context, sessionID string) (io.ReadCloser, error)
	StartSession(ctx context.Context, ac *auth.Context, candidateName string) (string, error)
	NextQuestion(ctx context.Context, ac *auth.Context, sessionID string) (domain.Question, bool, error)
	SubmitAnswer(ctx context.Context, ac *auth.Context, sessionID, question, answer string) (json.RawMessage, error)
	FetchProfile(ctx context.Context, ac *auth.Context, sessionID string) ([]domain.TraitScore, error)
	FetchFeedback(ctx context.Context, ac *auth.Context, sessionID string) (domain.FeedbackSummary, error)
	ListCandidates(ctx context.Context, ac *auth.Context) ([]domain.CandidateRecord, error)
	FetchTrends(ctx context.Context, ac *auth.Context) (map[string]float64, error)
	CompareCandidates(ctx context.Context, ac *auth.Context, ids []string) (map[string]map[string]float64, error)
}

// Service owns the registry of live session orchestrators, one per session
// id, so sessions proceed independently while each stays internally serial.
type Service struct {
	gw         Gateway
	archive    repository.Archive
	policy     *policy.Engine
	aggregator *aggregate.Aggregator
	config     *config.Config

	mu            sync.Mutex
	orchestrators map[string]*session.Orchestrator
}

// New creates the service.
func New(gw Gateway, archive repository.Archive, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		gw:            gw,
		archive:       archive,
		policy:        policyEngine,
		aggregator:    aggregate.New(gw),
		config:        cfg,
		orchestrators: make(map[string]*session.Orchestrator),
	}
}

// Login exchanges credentials for an authentication context. The failure
// message stays generic: which field was wrong must not reach the user.
func (s *Service) Login(ctx context.Context, username, password string, role domain.Role) (*auth.Context, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.NewValidationError("username and password are required")
	}
	switch role {
	case domain.RoleCandidate, domain.RoleRecruiter:
	default:
		return nil, domain.NewValidationError("role must be candidate or recruiter")
	}

	token, err := s.gw.Authenticate(ctx, username, password, role)
	if err != nil {
		if domain.IsKind(err, domain.KindAuth) {
			return nil, domain.NewAuthError("login failed")
		}
		return nil, err
	}

	ac, err := auth.FromToken(token)
	if err != nil {
		return nil, err
	}
	if ac.Username == "" {
		ac.Username = username
	}
	return ac, nil
}

// authorize runs the local role policy pre-check for an operation.
func (s *Service) authorize(ctx context.Context, ac *auth.Context, op domain.Operation) error {
	allowed, err := s.policy.Allow(ctx, ac.Role, op)
	if err != nil {
		return fmt.Errorf("failed to evaluate role policy: %w", err)
	}
	if !allowed {
		return domain.NewAuthError(fmt.Sprintf("role %s may not perform %s", ac.Role, op))
	}
	return nil
}

// orchestrator looks up a live session orchestrator.
func (s *Service) orchestrator(sessionID string) (*session.Orchestrator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orch, ok := s.orchestrators[sessionID]
	return orch, ok
}
