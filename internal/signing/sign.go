package signing

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/util"
)

type signOptions struct {
	message   *typeddata.Message
	chainID   *int64
	recovered bool
}

// SignOption configures a SignDocument call.
type SignOption func(*signOptions)

// WithSignedMessage passes the typed-data message the signature was produced
// over. It is checked against the session, its signer is recovered locally and
// it is forwarded to the backend unchanged.
func WithSignedMessage(msg typeddata.Message) SignOption {
	return func(o *signOptions) {
		o.message = &msg
	}
}

// WithChainID selects the chain id used to recover the signer of a signed message.
func WithChainID(chainID *int64) SignOption {
	return func(o *signOptions) {
		o.chainID = chainID
	}
}

// signerRecovered skips the local recovery step for signatures produced by this service.
func signerRecovered() SignOption {
	return func(o *signOptions) {
		o.recovered = true
	}
}

func (s *service) SignDocument(ctx context.Context, sessionID string, signature string, opts ...SignOption) (*SignResult, error) {
	const op = "SignDocument"

	options := &signOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// 1. Reject malformed signatures before touching any state
	if _, err := typeddata.DecodeSignature(signature); err != nil {
		return nil, NewError(KindInvalidSignature, op, "malformed signature", err).WithSession(sessionID)
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	// 2. Load and re-check the session while holding its lock
	session, err := s.GetSigningSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	logger := util.LogFromContext(ctx).With().Str("sessionId", sessionID).Logger()

	if s.isStale(session) {
		if err := s.expire(ctx, session); err != nil {
			logger.Warn().Err(err).Msg("Failed to expire stale signing session")
		}
		return nil, NewError(KindSessionExpired, op, "session expired", nil).WithSession(sessionID)
	}

	switch session.Status {
	case store.StatusPending:
	case store.StatusExpired:
		return nil, NewError(KindSessionExpired, op, "session expired", nil).WithSession(sessionID)
	case store.StatusSigned, store.StatusVerified:
		return nil, NewError(KindInvalidSignature, op, "session already signed", nil).WithSession(sessionID)
	case store.StatusFailed:
		return nil, NewError(KindInvalidSignature, op, "session failed", nil).WithSession(sessionID)
	default:
		return nil, NewError(KindInvalidSignature, op, "session is not pending", nil).WithSession(sessionID)
	}

	// 3. Check the signed message against the session
	if options.message != nil {
		if err := s.checkSignedMessage(ctx, session, signature, options); err != nil {
			return nil, err
		}
	}

	// 4. Submit to the backend
	result, err := s.backend.SignDocument(ctx, &BackendSignRequest{
		SessionID:     sessionID,
		Signature:     signature,
		WalletAddress: session.SignerAddress,
		Message:       options.message,
	})
	if err != nil {
		if isRejection(err) {
			s.fail(ctx, session)
		}
		logger.Debug().Err(err).Msg("Backend did not accept signature")
		return nil, err
	}

	// 5. Record the signature
	session.Signature = signature
	session.Status = store.StatusSigned
	session.VerificationLink = result.VerificationLink
	session.DocumentURL = result.DocumentURL
	session.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.Update(ctx, session); err != nil {
		if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrInvalidTransition) {
			return nil, NewError(KindInvalidSignature, op, "session was signed concurrently", err).WithSession(sessionID)
		}
		return nil, errors.Wrap(err, "failed to update signing session")
	}

	s.observer.ObserveStatus(store.StatusSigned)
	logger.Info().Msg("Document signed")

	return &SignResult{
		SessionID:        sessionID,
		Signature:        signature,
		DocumentHash:     session.DocumentHash,
		VerificationLink: session.VerificationLink,
		DocumentURL:      session.DocumentURL,
		Status:           session.Status,
	}, nil
}

func (s *service) checkSignedMessage(ctx context.Context, session *Session, signature string, options *signOptions) error {
	const op = "SignDocument"

	msg := options.message

	switch {
	case msg.SessionID != session.SessionID:
		return NewError(KindInvalidSignature, op, "signed message belongs to another session", nil).WithSession(session.SessionID)
	case !strings.EqualFold(msg.WalletAddress, session.SignerAddress):
		return NewError(KindInvalidSignature, op, "signed message names another wallet", nil).WithSession(session.SessionID)
	case !strings.EqualFold(msg.DocumentHash, session.DocumentHash):
		return NewError(KindInvalidSignature, op, "signed message names another document", nil).WithSession(session.SessionID)
	}

	if options.recovered {
		return nil
	}

	domain, err := s.GetEIP712Domain(ctx, options.chainID)
	if err != nil {
		return err
	}

	recovered, err := typeddata.RecoverSigner(typeddata.Build(*domain, *msg), signature)
	if errors.Is(err, typeddata.ErrMissingField) {
		return NewError(KindBackend, op, "unsupported EIP-712 message type", err).WithSession(session.SessionID)
	}
	if err != nil {
		return NewError(KindInvalidSignature, op, "signer could not be recovered", err).WithSession(session.SessionID)
	}

	if !strings.EqualFold(recovered, session.SignerAddress) {
		return NewError(KindInvalidSignature, op, "signature was not produced by the session signer", nil).WithSession(session.SessionID)
	}

	return nil
}

// isRejection reports whether the backend refused the request itself, as
// opposed to being unreachable or failing internally.
func isRejection(err error) bool {
	signingErr, ok := FromError(err)
	if !ok || signingErr.Kind != KindBackend {
		return false
	}

	return signingErr.StatusCode >= http.StatusBadRequest && signingErr.StatusCode < http.StatusInternalServerError
}

func (s *service) fail(ctx context.Context, session *Session) {
	failed := session.Clone()
	failed.Status = store.StatusFailed
	failed.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.Update(ctx, failed); err != nil {
		util.LogFromContext(ctx).Warn().Err(err).Str("sessionId", session.SessionID).Msg("Failed to mark signing session as failed")
		return
	}

	s.observer.ObserveStatus(store.StatusFailed)
}

func (s *service) SignWithDerivedWallet(ctx context.Context, sessionID string, identifier string, chainID *int64) (*SignResult, error) {
	const op = "SignWithDerivedWallet"

	// 1. Derive the demo wallet
	identity, err := s.deriveIdentity(identifier)
	if err != nil {
		return nil, err
	}
	defer identity.Zero()

	session, err := s.GetSigningSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(identity.Address, session.SignerAddress) {
		return nil, NewError(KindInvalidSignature, op, "derived wallet does not match the session signer", nil).WithSession(sessionID)
	}

	// 2. Build and sign the typed data
	domain, err := s.GetEIP712Domain(ctx, chainID)
	if err != nil {
		return nil, err
	}

	msg := typeddata.NewMessage(session.SessionID, identity.Address, session.DocumentHash, s.clock.Now())
	td := typeddata.Build(*domain, msg)

	signature, err := typeddata.Sign(td, identity.PrivateKey)
	if errors.Is(err, typeddata.ErrMissingField) {
		return nil, NewError(KindBackend, op, "unsupported EIP-712 message type", err).WithSession(sessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign typed data")
	}

	// 3. Verify locally before submitting
	recovered, err := typeddata.RecoverSigner(td, signature)
	if err != nil {
		return nil, NewError(KindInvalidSignature, op, "signer could not be recovered", err).WithSession(sessionID)
	}

	if !strings.EqualFold(recovered, identity.Address) {
		return nil, NewError(KindInvalidSignature, op, "recovered signer does not match derived wallet", nil).WithSession(sessionID)
	}

	return s.SignDocument(ctx, sessionID, signature, WithSignedMessage(msg), signerRecovered())
}
