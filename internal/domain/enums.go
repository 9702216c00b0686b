// Package domain defines the core domain models for the assessment orchestrator.
package domain

// SessionStatus represents the lifecycle status of an assessment session.
type SessionStatus string

const (
	SessionStatusNotStarted SessionStatus = "NOT_STARTED"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

// Sender identifies who produced a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Role represents an authenticated identity's role.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// Operation names the orchestration operations subject to role policy.
type Operation string

const (
	OperationStartSession   Operation = "start_session"
	OperationAnswer         Operation = "answer"
	OperationSummary        Operation = "summary"
	OperationReport         Operation = "report"
	OperationListCandidates Operation = "list_candidates"
	OperationTrends         Operation = "trends"
	OperationCompare        Operation = "compare"
)
