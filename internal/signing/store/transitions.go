package store

import "fmt"

// CanTransition reports whether a session may move from current to next.
// pending -> signed -> verified is the happy path, failed and expired are
// terminal and reachable from pending or signed.
func CanTransition(current, next Status) bool {
	switch current {
	case StatusPending:
		return next == StatusSigned || next == StatusFailed || next == StatusExpired
	case StatusSigned:
		return next == StatusVerified || next == StatusFailed || next == StatusExpired
	case StatusVerified, StatusFailed, StatusExpired:
		return false
	default:
		return false
	}
}

// CheckUpdate validates next as the successor of the stored session prev.
func CheckUpdate(prev *Session, next *Session) error {
	switch {
	case prev.SessionID != next.SessionID:
		return fmt.Errorf("%w: sessionId", ErrImmutableField)
	case prev.DocumentHash != next.DocumentHash:
		return fmt.Errorf("%w: documentHash", ErrImmutableField)
	case prev.SignerAddress != next.SignerAddress:
		return fmt.Errorf("%w: signerAddress", ErrImmutableField)
	case prev.UserID != next.UserID:
		return fmt.Errorf("%w: userId", ErrImmutableField)
	case prev.Signature != "" && prev.Signature != next.Signature:
		return fmt.Errorf("%w: signature", ErrImmutableField)
	}

	if prev.Status != next.Status && !CanTransition(prev.Status, next.Status) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, prev.Status, next.Status)
	}

	// The signature is immutable once set, so a signed session never reaches
	// failed or expired even though CanTransition allows it.
	if next.Signature != "" && next.Status != StatusSigned && next.Status != StatusVerified {
		return fmt.Errorf("%w: session with a signature cannot be %s", ErrInvalidTransition, next.Status)
	}

	return nil
}
