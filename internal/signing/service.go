package signing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/util"
	"github/chapool/go-docsign/internal/wallet"
)

const (
	// MIMETypePDF is the only accepted document type.
	MIMETypePDF = "application/pdf"

	// timestampLayout is ISO 8601 with millisecond precision in UTC.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Service orchestrates signing sessions between the session store and the
// signing backend.
type Service interface {
	// CreateSigningSession validates and hashes the document, registers it with
	// the backend and persists a pending session.
	CreateSigningSession(ctx context.Context, req *CreateRequest) (*Session, error)

	// GetSigningSession returns the stored session or a KindSessionNotFound error.
	GetSigningSession(ctx context.Context, sessionID string) (*Session, error)

	// SignDocument submits signature for a pending session.
	SignDocument(ctx context.Context, sessionID string, signature string, opts ...SignOption) (*SignResult, error)

	// GetEIP712Domain returns the backend domain bound to chainID, or to the
	// active network when chainID is nil.
	GetEIP712Domain(ctx context.Context, chainID *int64) (*typeddata.Domain, error)

	// GetVerificationLink returns the cached link or fetches (and caches) it.
	GetVerificationLink(ctx context.Context, sessionID string) (string, error)

	// GetSignedDocument always downloads the document from the backend.
	GetSignedDocument(ctx context.Context, sessionID string) ([]byte, error)

	// VerifySignature never fails, any error yields false.
	VerifySignature(ctx context.Context, sessionID string) bool

	// MarkVerified moves a signed session to verified.
	MarkVerified(ctx context.Context, sessionID string) (*Session, error)

	// ExpireStaleSessions expires pending sessions created more than olderThan ago.
	ExpireStaleSessions(ctx context.Context, olderThan time.Duration) (int, error)

	// GetUserSessions lists the sessions of userID in creation order.
	GetUserSessions(ctx context.Context, userID string) ([]*Session, error)

	// CancelSession removes the session locally. The backend is not informed.
	CancelSession(ctx context.Context, sessionID string) error

	// DeriveWallet returns the demo wallet address of identifier.
	DeriveWallet(identifier string) (string, error)

	// SignWithDerivedWallet signs the session with the demo wallet of identifier.
	SignWithDerivedWallet(ctx context.Context, sessionID string, identifier string, chainID *int64) (*SignResult, error)
}

type service struct {
	config   config.Server
	store    store.Store
	backend  Backend
	chain    ChainResolver
	deriver  wallet.Deriver
	clock    time2.Clock
	observer Observer
	locks    *keyedMutex
}

// Option configures optional collaborators of the service.
type Option func(*service)

// WithObserver registers o for status changes.
func WithObserver(o Observer) Option {
	return func(s *service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithChainResolver sets the resolver used for domains requested without chain id.
func WithChainResolver(r ChainResolver) Option {
	return func(s *service) {
		s.chain = r
	}
}

// WithDeriver enables wallet derivation.
func WithDeriver(d wallet.Deriver) Option {
	return func(s *service) {
		s.deriver = d
	}
}

// NewService creates the signing service
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(cfg config.Server, st store.Store, backend Backend, clock time2.Clock, opts ...Option) Service {
	s := &service{
		config:   cfg,
		store:    st,
		backend:  backend,
		clock:    clock,
		observer: noopObserver{},
		locks:    newKeyedMutex(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) CreateSigningSession(ctx context.Context, req *CreateRequest) (*Session, error) {
	const op = "CreateSigningSession"

	// 1. Validate input
	if req == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "request is required")
	}

	if err := s.validateDocument(req.Document); err != nil {
		return nil, err
	}

	if !common.IsHexAddress(req.SignerAddress) {
		return nil, errors.Wrapf(ErrInvalidRequest, "invalid signer address %q", req.SignerAddress)
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "userID is required")
	}

	message := req.Message
	if message == "" {
		message = s.config.Signing.DefaultMessage
	}

	signer := common.HexToAddress(req.SignerAddress).Hex()
	documentHash := typeddata.HashDocument(req.Document.Content)
	now := s.clock.Now().UTC()

	logger := util.LogFromContext(ctx).With().Str("userId", userID).Str("signerAddress", signer).Str("documentHash", documentHash).Logger()

	// 2. Register the document with the backend
	created, err := s.backend.CreateSession(ctx, &BackendSessionRequest{
		Document:      req.Document.Content,
		FileName:      req.Document.FileName,
		SignerAddress: signer,
		UserID:        userID,
		Message:       message,
		Timestamp:     now.Format(timestampLayout),
	})
	if err != nil {
		logger.Debug().Err(err).Msg("Backend rejected signing session")
		return nil, err
	}

	if created.SessionID == "" {
		return nil, NewError(KindBackend, op, "backend returned an empty session id", nil)
	}

	if created.DocumentHash != "" && !strings.EqualFold(created.DocumentHash, documentHash) {
		logger.Warn().Str("sessionId", created.SessionID).Str("backendDocumentHash", created.DocumentHash).Msg("Backend document hash differs from local hash, keeping local hash")
	}

	timestamp := created.Timestamp
	if timestamp == "" {
		timestamp = now.Format(timestampLayout)
	}

	// 3. Persist the pending session
	session := &Session{
		SessionID:     created.SessionID,
		DocumentHash:  documentHash,
		SignerAddress: signer,
		Message:       message,
		UserID:        userID,
		Timestamp:     timestamp,
		Status:        store.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save signing session")
	}

	s.observer.ObserveStatus(store.StatusPending)
	logger.Info().Str("sessionId", session.SessionID).Msg("Signing session created")

	return session, nil
}

func (s *service) validateDocument(doc *Document) error {
	const op = "validateDocument"

	if doc == nil || len(doc.Content) == 0 {
		return NewError(KindInvalidDocument, op, "document is required", nil)
	}

	if contentType := strings.TrimSpace(strings.Split(doc.ContentType, ";")[0]); contentType != MIMETypePDF {
		return NewError(KindInvalidDocument, op, fmt.Sprintf("only PDF documents are supported, got %q", doc.ContentType), nil)
	}

	if limit := s.config.Signing.MaxDocumentSize; limit > 0 && int64(len(doc.Content)) > limit {
		return NewError(KindInvalidDocument, op, fmt.Sprintf("document too large (%d bytes, max %d)", len(doc.Content), limit), nil)
	}

	if detected := mimetype.Detect(doc.Content); !detected.Is(MIMETypePDF) {
		return NewError(KindInvalidDocument, op, fmt.Sprintf("document content is %s, not a PDF", detected.String()), nil)
	}

	return nil
}

func (s *service) GetSigningSession(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewError(KindSessionNotFound, "GetSigningSession", "session not found", err).WithSession(sessionID)
		}
		return nil, errors.Wrap(err, "failed to load signing session")
	}

	return session, nil
}

func (s *service) GetUserSessions(ctx context.Context, userID string) ([]*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "userID is required")
	}

	sessions, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list signing sessions")
	}

	return sessions, nil
}

func (s *service) CancelSession(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewError(KindSessionNotFound, "CancelSession", "session not found", err).WithSession(sessionID)
		}
		return errors.Wrap(err, "failed to delete signing session")
	}

	util.LogFromContext(ctx).Info().Str("sessionId", sessionID).Msg("Signing session cancelled")

	return nil
}

func (s *service) DeriveWallet(identifier string) (string, error) {
	identity, err := s.deriveIdentity(identifier)
	if err != nil {
		return "", err
	}
	defer identity.Zero()

	return identity.Address, nil
}

func (s *service) deriveIdentity(identifier string) (*wallet.Identity, error) {
	if s.deriver == nil || !s.config.Wallet.DemoDerivationEnabled {
		return nil, ErrDerivationDisabled
	}

	identity, err := s.deriver.Derive(identifier)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidIdentifier) {
			return nil, NewError(KindInvalidIdentifier, "DeriveWallet", "identifier must not be empty", err)
		}
		return nil, errors.Wrap(err, "failed to derive wallet")
	}

	return identity, nil
}
