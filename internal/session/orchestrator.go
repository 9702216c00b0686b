// Package session owns the state machine for one live assessment session:
// the strictly ordered question -> answer -> next-question loop against the
// scoring service, the transcript, and completion detection.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/traitflow/traitflow/internal/auth"
	"github.com/traitflow/traitflow/internal/domain"
)

// Gateway is the subset of the scoring service client the orchestrator drives.
type Gateway interface {
	StartSession(ctx context.Context, ac *auth.Context, candidateName string) (string, error)
	NextQuestion(ctx context.Context, ac *auth.Context, sessionID string) (domain.Question, bool, error)
	SubmitAnswer(ctx context.Context, ac *auth.Context, sessionID, question, answer string) (json.RawMessage, error)
}

var (
	ErrAlreadyStarted    = errors.New("session already started")
	ErrNotStarted        = errors.New("session has not started")
	ErrCompleted         = errors.New("session already completed")
	ErrClosed            = errors.New("session discarded")
	ErrRoundTripInFlight = errors.New("a round-trip is already in flight for this session")
	ErrNoCurrentQuestion = errors.New("no question is pending")
	ErrAwaitingRetry     = errors.New("a failed step is awaiting retry")
	ErrNothingToRetry    = errors.New("no failed step to retry")
)

// pendingStep records the resumable remainder of an answer round-trip after a
// network failure. While submitted is false, the user message is in the
// transcript but the scoring service has not accepted the answer; once true,
// only the next-question fetch is still owed.
type pendingStep struct {
	question  string
	text      string
	submitted bool
}

// Orchestrator governs one assessment session. All exported methods are safe
// for concurrent use; the mutex is released across network awaits, and a
// transient in-flight gate serializes answer round-trips so no two can
// overlap for the same session.
type Orchestrator struct {
	gw Gateway
	ac *auth.Context

	mu            sync.Mutex
	sessionID     string
	candidateName string
	status        domain.SessionStatus
	current       *domain.Question
	transcript    []domain.Message
	pending       *pendingStep
	inFlight      bool
	closed        bool
	createdAt     time.Time
	completedAt   *time.Time
}

// New creates an orchestrator in the NOT_STARTED state for one authenticated
// identity. A new session always requires a fresh instance.
func New(gw Gateway, ac *auth.Context) *Orchestrator {
	return &Orchestrator{
		gw:     gw,
		ac:     ac,
		status: domain.SessionStatusNotStarted,
	}
}

// Start creates the remote session and fetches the first question. On start
// failure no partial session exists and Start may be called again. A failure
// of the implicit first fetch leaves the session IN_PROGRESS awaiting Retry.
func (o *Orchestrator) Start(ctx context.Context, candidateName string) error {
	if strings.TrimSpace(candidateName) == "" {
		return domain.NewValidationError("candidate name must not be empty")
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	if o.status != domain.SessionStatusNotStarted || o.inFlight {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.inFlight = true
	o.mu.Unlock()

	sessionID, err := o.gw.StartSession(ctx, o.ac, candidateName)

	o.mu.Lock()
	if o.closed {
		o.inFlight = false
		o.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		o.inFlight = false
		o.mu.Unlock()
		return err
	}
	o.sessionID = sessionID
	o.candidateName = candidateName
	o.status = domain.SessionStatusInProgress
	o.createdAt = time.Now()
	o.pending = &pendingStep{submitted: true}
	o.mu.Unlock()

	return o.runPending(ctx)
}

// Answer submits one answer for the current question and advances the loop.
// The user message is appended before the network round-trip so the perceived
// order is preserved; it is never rolled back on failure. A failed step is
// resumable via Retry only, which keeps the transcript free of duplicates.
func (o *Orchestrator) Answer(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.NewValidationError("answer must not be empty")
	}

	o.mu.Lock()
	if err := o.answerableLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	question := o.current.Text
	o.appendMessageLocked(domain.SenderUser, text)
	o.current = nil
	o.pending = &pendingStep{question: question, text: text}
	o.inFlight = true
	o.mu.Unlock()

	return o.runPending(ctx)
}

// answerableLocked checks the gate for a new answer. Callers hold o.mu.
func (o *Orchestrator) answerableLocked() error {
	if o.closed {
		return ErrClosed
	}
	switch o.status {
	case domain.SessionStatusNotStarted:
		return ErrNotStarted
	case domain.SessionStatusCompleted:
		return ErrCompleted
	}
	if o.inFlight {
		return ErrRoundTripInFlight
	}
	if o.pending != nil {
		return ErrAwaitingRetry
	}
	if o.current == nil {
		return ErrNoCurrentQuestion
	}
	return nil
}

// Retry resumes exactly the step that failed: the answer submission if the
// scoring service never accepted it, otherwise the next-question fetch.
func (o *Orchestrator) Retry(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	if o.status != domain.SessionStatusInProgress {
		o.mu.Unlock()
		if o.status == domain.SessionStatusCompleted {
			return ErrCompleted
		}
		return ErrNotStarted
	}
	if o.inFlight {
		o.mu.Unlock()
		return ErrRoundTripInFlight
	}
	if o.pending == nil {
		o.mu.Unlock()
		return ErrNothingToRetry
	}
	o.inFlight = true
	o.mu.Unlock()

	return o.runPending(ctx)
}

// runPending drives the outstanding step(s) of the answer loop. The in-flight
// gate is held on entry and released here; after every await the closed flag
// is re-checked so a discarded session is never mutated by a late resolution.
func (o *Orchestrator) runPending(ctx context.Context) error {
	o.mu.Lock()
	sessionID := o.sessionID
	submitted := o.pending.submitted
	question := o.pending.question
	text := o.pending.text
	o.mu.Unlock()

	if !submitted {
		analysis, err := o.gw.SubmitAnswer(ctx, o.ac, sessionID, question, text)

		o.mu.Lock()
		if o.closed {
			o.inFlight = false
			o.mu.Unlock()
			return ErrClosed
		}
		if err != nil {
			o.inFlight = false
			o.mu.Unlock()
			return err
		}
		o.pending.submitted = true
		o.appendMessageLocked(domain.SenderAI, analysisContent(analysis))
		o.mu.Unlock()
	}

	next, done, err := o.gw.NextQuestion(ctx, o.ac, sessionID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		o.inFlight = false
		return ErrClosed
	}
	o.inFlight = false
	if err != nil {
		return err
	}
	o.pending = nil
	if done {
		o.status = domain.SessionStatusCompleted
		o.current = nil
		now := time.Now()
		o.completedAt = &now
		return nil
	}
	o.current = &next
	return nil
}

// Close discards the session. In-flight round-trips that resolve afterwards
// are ignored rather than applied to stale state.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}

// Snapshot is the read-only view of a session exposed to the presentation
// boundary. CurrentQuestion is nil whenever a round-trip is outstanding or a
// failed step awaits retry; it must not be read as "the question to answer"
// during that window.
type Snapshot struct {
	SessionID       string               `json:"session_id"`
	CandidateName   string               `json:"candidate_name"`
	Status          domain.SessionStatus `json:"status"`
	CurrentQuestion *domain.Question     `json:"current_question,omitempty"`
	AwaitingRetry   bool                 `json:"awaiting_retry"`
	CreatedAt       time.Time            `json:"created_at"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
}

// Snapshot returns the current session view.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := Snapshot{
		SessionID:     o.sessionID,
		CandidateName: o.candidateName,
		Status:        o.status,
		AwaitingRetry: o.pending != nil && !o.inFlight,
		CreatedAt:     o.createdAt,
		CompletedAt:   o.completedAt,
	}
	if o.current != nil {
		q := *o.current
		snap.CurrentQuestion = &q
	}
	return snap
}

// Transcript returns a copy of the message log in insertion order.
func (o *Orchestrator) Transcript() []domain.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.Message, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// appendMessageLocked appends to the transcript. Callers hold o.mu.
func (o *Orchestrator) appendMessageLocked(sender domain.Sender, content string) {
	o.transcript = append(o.transcript, domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: o.sessionID,
		Seq:       len(o.transcript) + 1,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// analysisContent renders the opaque analysis as the system transcript entry.
// Plain string payloads are unquoted; anything else stays raw JSON.
func analysisContent(analysis json.RawMessage) string {
	trimmed := bytes.TrimSpace(analysis)
	if len(trimmed) == 0 {
		return "{}"
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
