package signing

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every failure surfaced by the signing workflow. The set is
// closed, callers switch over it exhaustively.
type Kind string

const (
	KindInvalidDocument    Kind = "INVALID_DOCUMENT"
	KindInvalidSignature   Kind = "INVALID_SIGNATURE"
	KindSessionExpired     Kind = "SESSION_EXPIRED"
	KindSessionNotFound    Kind = "SESSION_NOT_FOUND"
	KindBackend            Kind = "BACKEND_ERROR"
	KindBackendUnavailable Kind = "BACKEND_UNAVAILABLE"
	KindInvalidIdentifier  Kind = "INVALID_IDENTIFIER"
)

// Kinds lists every Kind.
var Kinds = []Kind{
	KindInvalidDocument,
	KindInvalidSignature,
	KindSessionExpired,
	KindSessionNotFound,
	KindBackend,
	KindBackendUnavailable,
	KindInvalidIdentifier,
}

var (
	// ErrBackendNotConfigured is wrapped by every backend call while the backend
	// URL or API key is missing.
	ErrBackendNotConfigured = errors.New("signing backend is not configured")
	// ErrInvalidRequest marks missing or malformed request fields.
	ErrInvalidRequest = errors.New("invalid signing request")
	// ErrDerivationDisabled is returned by wallet based signing when demo derivation is turned off.
	ErrDerivationDisabled = errors.New("demo wallet derivation is disabled")
)

// Error is the error type of the signing workflow.
type Error struct {
	Kind      Kind
	Op        string
	SessionID string
	Message   string

	// StatusCode and Body are set for KindBackend errors caused by a non-2xx response.
	StatusCode int
	Body       string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		fmt.Fprintf(&b, "%s: ", e.Op)
	}
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.SessionID != "" {
		fmt.Fprintf(&b, " (session %s)", e.SessionID)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " [status %d]", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of kind.
func NewError(kind Kind, op string, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// WithSession sets the session id and returns e.
func (e *Error) WithSession(sessionID string) *Error {
	e.SessionID = sessionID
	return e
}

// FromError extracts the *Error in err's chain.
func FromError(err error) (*Error, bool) {
	var signingErr *Error
	if errors.As(err, &signingErr) {
		return signingErr, true
	}

	return nil, false
}

// KindOf returns the Kind of err, or "" if err carries none.
func KindOf(err error) Kind {
	if signingErr, ok := FromError(err); ok {
		return signingErr.Kind
	}

	return ""
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
