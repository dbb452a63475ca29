package server

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github/chapool/go-docsign/internal/api"
)

const defaultExpiryCheckInterval = time.Minute

// startExpiryWorker expires pending sessions older than the pending TTL, once
// right away and then every expiry check interval until ctx is done.
func startExpiryWorker(ctx context.Context, s *api.Server) {
	ttl := s.Config.Signing.PendingTTL
	if ttl <= 0 {
		log.Warn().Msg("SESSION_PENDING_TTL_MIN is not positive, expiry worker not started")
		return
	}

	interval := s.Config.Signing.ExpiryCheckInterval
	if interval <= 0 {
		interval = defaultExpiryCheckInterval
	}

	runOnce := func() {
		n, err := s.Signing.ExpireStaleSessions(ctx, ttl)
		s.Metrics.ObserveExpiryRun()

		if err != nil {
			log.Error().Err(err).Int("expired", n).Msg("Expiry worker failed to expire stale sessions")
			return
		}

		if n > 0 {
			log.Info().Int("expired", n).Msg("Expiry worker expired stale sessions")
		}
	}

	go func() {
		log.Info().Dur("interval", interval).Dur("ttl", ttl).Msg("Starting session expiry worker")
		runOnce()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Session expiry worker stopped")
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
