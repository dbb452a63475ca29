package store

import (
	"context"
	"errors"
	"time"
)

// Status of a signing session.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSigned   Status = "signed"
	StatusVerified Status = "verified"
	StatusFailed   Status = "failed"
	StatusExpired  Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusFailed || s == StatusExpired
}

var (
	ErrNotFound          = errors.New("session not found")
	ErrAlreadyExists     = errors.New("session already exists")
	ErrConflict          = errors.New("session was modified concurrently")
	ErrImmutableField    = errors.New("immutable session field changed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMissingSessionID  = errors.New("session id must not be empty")
)

// Session is one document signing attempt. DocumentHash, SignerAddress and
// UserID are fixed at creation, a Signature once set never changes.
type Session struct {
	SessionID        string    `json:"sessionId"`
	DocumentHash     string    `json:"documentHash"`
	SignerAddress    string    `json:"signerAddress"`
	Signature        string    `json:"signature,omitempty"`
	Message          string    `json:"message,omitempty"`
	UserID           string    `json:"userId"`
	Timestamp        string    `json:"timestamp"`
	Status           Status    `json:"status"`
	VerificationLink string    `json:"verificationLink,omitempty"`
	DocumentURL      string    `json:"documentUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Version is bumped by every successful Update and used for optimistic locking.
	Version int64 `json:"version"`
}

// Clone returns a copy of s that shares no memory with it.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	c := *s
	return &c
}

// Store persists signing sessions. Implementations are safe for concurrent use
// and hand out copies, mutating a returned session never changes stored state.
type Store interface {
	// Save inserts a new session, ErrAlreadyExists if the id is taken.
	Save(ctx context.Context, session *Session) error

	// FindByID returns ErrNotFound for unknown ids.
	FindByID(ctx context.Context, sessionID string) (*Session, error)

	// FindByUserID returns the sessions of userID in insertion order.
	FindByUserID(ctx context.Context, userID string) ([]*Session, error)

	// FindByStatus returns sessions in status created strictly before createdBefore.
	FindByStatus(ctx context.Context, status Status, createdBefore time.Time) ([]*Session, error)

	// Update replaces the stored session. session.Version must match the stored
	// version (ErrConflict otherwise) and is incremented on success. Changing an
	// immutable field fails with ErrImmutableField, a backwards status move with
	// ErrInvalidTransition.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session, ErrNotFound if absent.
	Delete(ctx context.Context, sessionID string) error
}
