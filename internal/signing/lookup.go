package signing

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/signing/typeddata"
	"github/chapool/go-docsign/internal/util"
)

func (s *service) GetEIP712Domain(ctx context.Context, chainID *int64) (*typeddata.Domain, error) {
	if chainID != nil && *chainID <= 0 {
		return nil, errors.Wrapf(ErrInvalidRequest, "invalid chain id %d", *chainID)
	}

	domain, err := s.backend.GetEIP712Domain(ctx)
	if err != nil {
		return nil, err
	}

	res := domain.WithChainID(s.resolveChainID(ctx, chainID, domain.ChainID))

	return &res, nil
}

// resolveChainID prefers the explicit chain id, then the active network, then
// the backend's value and finally the configured default.
func (s *service) resolveChainID(ctx context.Context, explicit *int64, backend int64) int64 {
	if explicit != nil {
		return *explicit
	}

	if s.chain != nil {
		chainID, err := s.chain.ChainID(ctx)
		if err == nil && chainID > 0 {
			return chainID
		}
		util.LogFromContext(ctx).Warn().Err(err).Msg("Failed to resolve active chain id, falling back")
	}

	if backend > 0 {
		return backend
	}

	return s.config.Chain.DefaultChainID
}

func (s *service) GetVerificationLink(ctx context.Context, sessionID string) (string, error) {
	session, err := s.GetSigningSession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if session.VerificationLink != "" {
		return session.VerificationLink, nil
	}

	link, err := s.backend.GetVerificationLink(ctx, sessionID)
	if err != nil {
		return "", err
	}

	s.cacheVerificationLink(ctx, sessionID, link)

	return link, nil
}

func (s *service) cacheVerificationLink(ctx context.Context, sessionID string, link string) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	logger := util.LogFromContext(ctx).With().Str("sessionId", sessionID).Logger()

	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		logger.Debug().Err(err).Msg("Skipping verification link cache, session vanished")
		return
	}

	if session.VerificationLink != "" {
		return
	}

	session.VerificationLink = link
	session.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.Update(ctx, session); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache verification link")
	}
}

func (s *service) GetSignedDocument(ctx context.Context, sessionID string) ([]byte, error) {
	return s.backend.GetSignedDocument(ctx, sessionID)
}

func (s *service) VerifySignature(ctx context.Context, sessionID string) bool {
	logger := util.LogFromContext(ctx).With().Str("sessionId", sessionID).Logger()

	if _, err := s.GetSigningSession(ctx, sessionID); err != nil {
		logger.Debug().Err(err).Msg("Signature verification failed")
		return false
	}

	verified, err := s.backend.VerifySignature(ctx, sessionID)
	if err != nil {
		logger.Debug().Err(err).Msg("Signature verification failed")
		return false
	}

	return verified
}

func (s *service) MarkVerified(ctx context.Context, sessionID string) (*Session, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.GetSigningSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case store.StatusVerified:
		return session, nil
	case store.StatusSigned:
	case store.StatusExpired:
		return nil, NewError(KindSessionExpired, "MarkVerified", "session expired", nil).WithSession(sessionID)
	case store.StatusPending, store.StatusFailed:
		return nil, NewError(KindInvalidSignature, "MarkVerified", "session is not signed", nil).WithSession(sessionID)
	default:
		return nil, NewError(KindInvalidSignature, "MarkVerified", "session is not signed", nil).WithSession(sessionID)
	}

	session.Status = store.StatusVerified
	session.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.Update(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to mark signing session as verified")
	}

	s.observer.ObserveStatus(store.StatusVerified)

	return session, nil
}
