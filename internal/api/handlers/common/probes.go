package common

import (
	"context"
	"errors"
	"fmt"

	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/config"
)

// ProbeReadiness checks the connections of the configured store driver.
func ProbeReadiness(ctx context.Context, s *api.Server) []error {
	var errs []error

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	} else if s.Config.Store.Driver == config.StoreDriverPostgres {
		errs = append(errs, errors.New("database: not initialized"))
	}

	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	} else if s.Config.Store.Driver == config.StoreDriverRedis {
		errs = append(errs, errors.New("redis: not initialized"))
	}

	return errs
}

// ProbeLiveness runs the readiness probes and additionally resolves the chain
// id of the active network. Each finding is returned as one line.
func ProbeLiveness(ctx context.Context, s *api.Server) ([]string, []error) {
	var lines []string

	errs := ProbeReadiness(ctx, s)

	lines = append(lines, fmt.Sprintf("Store: %s", s.Config.Store.Driver))

	if s.Config.Backend.Configured() {
		lines = append(lines, "Backend: configured")
	} else {
		lines = append(lines, "Backend: not configured")
	}

	chainID, err := s.Chain.ChainID(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("chain: %w", err))
	} else {
		lines = append(lines, fmt.Sprintf("Chain: %d", chainID))
	}

	return lines, errs
}
