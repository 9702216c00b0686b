// Package repository persists a write-behind archive of assessment sessions
// and their transcripts. The live transcript is owned exclusively by the
// session orchestrator; the archive is a copy for listing and review, never
// read back into a live session.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/traitflow/traitflow/internal/domain"
)

// Archive defines the persistence interface for session history.
type Archive interface {
	UpsertSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	SaveMessages(ctx context.Context, messages []domain.Message) error
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)
	Close() error
}

// SQLiteArchive implements Archive using SQLite.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive opens (and migrates) the archive database.
func NewSQLiteArchive(dsn string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	archive := &SQLiteArchive{db: db}
	if err := archive.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return archive, nil
}

// migrate runs database migrations.
func (a *SQLiteArchive) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			candidate_name TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, seq),
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq)`,
	}

	for _, m := range migrations {
		if _, err := a.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// UpsertSession creates a session row or refreshes its status.
func (a *SQLiteArchive) UpsertSession(ctx context.Context, session *domain.Session) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, candidate_name, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET status = excluded.status, completed_at = excluded.completed_at`,
		session.SessionID, session.CandidateName, string(session.Status), session.CreatedAt, session.CompletedAt)
	return err
}

// GetSession retrieves an archived session by ID, or nil when absent.
func (a *SQLiteArchive) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var status string
	var completedAt sql.NullTime
	err := a.db.QueryRowContext(ctx,
		`SELECT session_id, candidate_name, status, created_at, completed_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.CandidateName, &status, &session.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	session.Status = domain.SessionStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		session.CompletedAt = &t
	}
	return &session, nil
}

// ListSessions retrieves all archived sessions, newest first.
func (a *SQLiteArchive) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT session_id, candidate_name, status, created_at, completed_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		var status string
		var completedAt sql.NullTime
		if err := rows.Scan(&session.SessionID, &session.CandidateName, &status, &session.CreatedAt, &completedAt); err != nil {
			return nil, err
		}
		session.Status = domain.SessionStatus(status)
		if completedAt.Valid {
			t := completedAt.Time
			session.CompletedAt = &t
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// SaveMessages archives transcript messages. Writes are idempotent per
// (session_id, seq) so the write-behind sync can safely replay the full
// transcript after each orchestrator mutation.
func (a *SQLiteArchive) SaveMessages(ctx context.Context, messages []domain.Message) error {
	if len(messages) == 0 {
		return nil
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO messages (message_id, session_id, seq, sender, content, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			m.MessageID, m.SessionID, m.Seq, string(m.Sender), m.Content, m.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetMessages retrieves an archived transcript in insertion order.
func (a *SQLiteArchive) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT message_id, session_id, seq, sender, content, created_at FROM messages WHERE session_id = ? ORDER BY seq ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var sender string
		if err := rows.Scan(&m.MessageID, &m.SessionID, &m.Seq, &sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Sender = domain.Sender(sender)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
