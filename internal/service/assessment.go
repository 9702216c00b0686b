package service

import (
	"context"
	"log"

	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/domain"
	"github.com/traitflow/traitflow/internal/session"
)

// SessionView is the presentation snapshot of one session.
type SessionView struct {
	Snapshot   session.Snapshot `json:"session"`
	Transcript []domain.Message `json:"transcript"`
}

// StartSession creates a new assessment session and its orchestrator. The
// orchestrator is registered even when the implicit first-question fetch
// fails, so the caller can retry without losing the remote session.
func (s *Service) StartSession(ctx context.Context, ac *auth.Context, candidateName string) (SessionView, error) {
	if err := s.authorize(ctx, ac, domain.OperationStartSession); err != nil {
		return SessionView{}, err
	}

	orch := session.New(s.gw, ac)
	startErr := orch.Start(ctx, candidateName)

	snap := orch.Snapshot()
	if snap.SessionID == "" {
		// No partial session: start itself failed.
		return SessionView{}, startErr
	}

	s.mu.Lock()
	s.orchestrators[snap.SessionID] = orch
	s.mu.Unlock()

	s.syncArchive(ctx, orch)
	return s.view(orch), startErr
}

// Answer submits one answer for the session's current question.
func (s *Service) Answer(ctx context.Context, ac *auth.Context, sessionID, text string) (SessionView, error) {
	if err := s.authorize(ctx, ac, domain.OperationAnswer); err != nil {
		return SessionView{}, err
	}
	orch, ok := s.orchestrator(sessionID)
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}

	answerErr := orch.Answer(ctx, text)
	s.syncArchive(ctx, orch)
	return s.view(orch), answerErr
}

// Retry resumes the failed step of the session's answer loop.
func (s *Service) Retry(ctx context.Context, ac *auth.Context, sessionID string) (SessionView, error) {
	if err := s.authorize(ctx, ac, domain.OperationAnswer); err != nil {
		return SessionView{}, err
	}
	orch, ok := s.orchestrator(sessionID)
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}

	retryErr := orch.Retry(ctx)
	s.syncArchive(ctx, orch)
	return s.view(orch), retryErr
}

// GetSession returns the live session view, falling back to the archive for
// sessions whose orchestrator has been discarded.
func (s *Service) GetSession(ctx context.Context, sessionID string) (SessionView, error) {
	if orch, ok := s.orchestrator(sessionID); ok {
		return s.view(orch), nil
	}

	archived, err := s.archive.GetSession(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if archived == nil {
		return SessionView{}, ErrSessionNotFound
	}
	messages, err := s.archive.GetMessages(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{
		Snapshot: session.Snapshot{
			SessionID:     archived.SessionID,
			CandidateName: archived.CandidateName,
			Status:        archived.Status,
			CreatedAt:     archived.CreatedAt,
			CompletedAt:   archived.CompletedAt,
		},
		Transcript: messages,
	}, nil
}

// CloseSession discards a live session. Late-resolving network calls will be
// ignored by the closed orchestrator; the archived copy remains readable.
func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	orch, ok := s.orchestrators[sessionID]
	delete(s.orchestrators, sessionID)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.syncArchive(ctx, orch)
	orch.Close()
	return nil
}

// ListSessions returns the archived session history, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.archive.ListSessions(ctx)
}

func (s *Service) view(orch *session.Orchestrator) SessionView {
	return SessionView{Snapshot: orch.Snapshot(), Transcript: orch.Transcript()}
}

// syncArchive writes the session and transcript through to the archive.
// Archive failures are logged, not surfaced: persistence must never block the
// assessment loop.
func (s *Service) syncArchive(ctx context.Context, orch *session.Orchestrator) {
	snap := orch.Snapshot()
	if snap.SessionID == "" {
		return
	}
	sess := &domain.Session{
		SessionID:     snap.SessionID,
		CandidateName: snap.CandidateName,
		Status:        snap.Status,
		CreatedAt:     snap.CreatedAt,
		CompletedAt:   snap.CompletedAt,
	}
	if err := s.archive.UpsertSession(ctx, sess); err != nil {
		log.Printf("ERROR: failed to archive session %s: %v", snap.SessionID, err)
		return
	}
	if err := s.archive.SaveMessages(ctx, orch.Transcript()); err != nil {
		log.Printf("ERROR: failed to archive transcript for session %s: %v", snap.SessionID, err)
	}
}
