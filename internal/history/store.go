// Package history persists conversation transcripts so a session survives
// restarts and the agent can rebuild its context window.
package history

import "time"

// Store is the transcript persistence interface consumed by the agent.
type Store interface {
	CreateSession() (string, error)
	GetSession(id string) (*Session, error)
	GetLatestSession() (*Session, error)
	UpdateSessionTime(id string) error
	ClearSession(sessionID string) error

	SaveMessage(sessionID string, msg *Message) error
	GetMessages(sessionID string, limit int) ([]*Message, error)

	Close() error
}

// Session is one conversation thread. UpdatedAt moves on every saved
// message, which is what makes GetLatestSession meaningful.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one transcript entry. Role is "user", "assistant" or "system".
type Message struct {
	ID        int64
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}
