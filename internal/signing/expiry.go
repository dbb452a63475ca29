package signing

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/util"
)

// isStale reports whether a pending session outlived the configured TTL.
func (s *service) isStale(session *Session) bool {
	ttl := s.config.Signing.PendingTTL
	if ttl <= 0 || session.Status != store.StatusPending {
		return false
	}

	return s.clock.Now().Sub(session.CreatedAt) > ttl
}

func (s *service) expire(ctx context.Context, session *Session) error {
	expired := session.Clone()
	expired.Status = store.StatusExpired
	expired.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.Update(ctx, expired); err != nil {
		return err
	}

	s.observer.ObserveStatus(store.StatusExpired)

	return nil
}

func (s *service) ExpireStaleSessions(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, nil
	}

	sessions, err := s.store.FindByStatus(ctx, store.StatusPending, s.clock.Now().Add(-olderThan))
	if err != nil {
		return 0, errors.Wrap(err, "failed to find stale signing sessions")
	}

	logger := util.LogFromContext(ctx)

	expired := 0
	for _, candidate := range sessions {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}

		if s.expireIfPending(ctx, candidate.SessionID) {
			expired++
		}
	}

	if expired > 0 {
		logger.Info().Int("expired", expired).Msg("Expired stale signing sessions")
	}

	return expired, nil
}

func (s *service) expireIfPending(ctx context.Context, sessionID string) bool {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	logger := util.LogFromContext(ctx).With().Str("sessionId", sessionID).Logger()

	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		logger.Debug().Err(err).Msg("Skipping expiry, session vanished")
		return false
	}

	if session.Status != store.StatusPending {
		return false
	}

	if err := s.expire(ctx, session); err != nil {
		logger.Warn().Err(err).Msg("Failed to expire signing session")
		return false
	}

	return true
}
