package domain

import "time"

// Session represents one candidate's assessment attempt.
type Session struct {
	SessionID     string        `json:"session_id"`
	CandidateName string        `json:"candidate_name"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// Message represents a single message in a session transcript.
// Messages are append-only; Seq is the insertion order and is never reused.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Question is the single pending question of an in-progress session.
type Question struct {
	Text string `json:"text"`
}
