package server

import (
	"errors"
	"fmt"
)

// Sentinel errors for server and session failures.
var (
	// ErrMaxSessions is returned when the session limit is reached.
	ErrMaxSessions = errors.New("server: max sessions reached")

	// ErrSessionClosed is returned when sending on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrUnknownRef is returned when an event names an element that does
	// not exist.
	ErrUnknownRef = errors.New("server: unknown ref")

	// ErrInvalidMessage is returned for frames that cannot be decoded.
	ErrInvalidMessage = errors.New("server: invalid message")

	// ErrNoPage is returned when the server has no page factory.
	ErrNoPage = errors.New("server: no page configured")
)

// SessionError wraps an error with session context.
type SessionError struct {
	SessionID string
	Op        string
	Err       error
}

// Error returns the error message with session context.
func (e *SessionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("server: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewSessionError creates a new SessionError.
func NewSessionError(sessionID, op string, err error) *SessionError {
	return &SessionError{
		SessionID: sessionID,
		Op:        op,
		Err:       err,
	}
}
