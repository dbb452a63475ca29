package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	migrate "github.com/rubenv/sql-migrate"
	"github/chapool/go-docsign/internal/chain"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/i18n"
	"github/chapool/go-docsign/internal/metrics"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/backend"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/wallet"
)

const redisPingTimeout = 5 * time.Second

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewClock returns the real clock, or a mock clock frozen at its zero time when
// called from a test.
//
//nolint:ireturn
func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC))
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

// NoTest is used by the production injector in place of the optional *testing.T.
func NoTest() []*testing.T {
	return nil
}

// NewDB opens the Postgres connection pool when the store driver needs it.
func NewDB(cfg config.Server) (*sql.DB, error) {
	if cfg.Store.Driver != config.StoreDriverPostgres {
		return nil, nil //nolint:nilnil
	}

	db, err := sql.Open("postgres", cfg.Store.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Store.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Store.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Store.Database.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewRedis connects to Redis when the store driver needs it.
func NewRedis(cfg config.Server) (*redis.Client, error) {
	if cfg.Store.Driver != config.StoreDriverRedis {
		return nil, nil //nolint:nilnil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Store.Redis.Addr,
		Password: cfg.Store.Redis.Password,
		DB:       cfg.Store.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewStore returns the session store selected by STORE_DRIVER. Postgres
// migrations are applied before the store is handed out.
//
//nolint:ireturn
func NewStore(cfg config.Server, db *sql.DB, rdb *redis.Client) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("store driver %q requires a database connection", cfg.Store.Driver)
		}

		n, err := store.Migrate(db, migrate.Up)
		if err != nil {
			return nil, err
		}
		log.Debug().Int("migrations", n).Msg("Applied session store migrations")

		return store.NewPostgres(db), nil
	case config.StoreDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("store driver %q requires a redis connection", cfg.Store.Driver)
		}

		return store.NewRedis(rdb), nil
	default:
		return store.NewMemory(), nil
	}
}

// NewBackend returns the HTTP client of the signing backend. Without
// SIGNING_BACKEND_URL and SIGNING_BACKEND_API_KEY every backend call fails
// with a not configured error instead.
//
//nolint:ireturn
func NewBackend(cfg config.Server, m *metrics.Service) (signing.Backend, error) {
	client, err := backend.NewClient(cfg.Backend, backend.WithObserver(m))
	if err != nil {
		if errors.Is(err, signing.ErrBackendNotConfigured) {
			log.Warn().Msg("Signing backend is not configured, signing requests will fail")
			return backend.Unconfigured{}, nil
		}

		return nil, err
	}

	return client, nil
}

//nolint:ireturn
func NewChainResolver(cfg config.Server) (chain.Resolver, error) {
	return chain.NewResolver(cfg.Chain)
}

//nolint:ireturn
func NewDeriver(cfg config.Server) (wallet.Deriver, error) {
	return wallet.NewDeriver(cfg.Wallet)
}

//nolint:ireturn
func NewSigningService(
	cfg config.Server,
	st store.Store,
	b signing.Backend,
	clock time2.Clock,
	resolver chain.Resolver,
	deriver wallet.Deriver,
	m *metrics.Service,
) signing.Service {
	return signing.NewService(cfg, st, b, clock,
		signing.WithChainResolver(resolver),
		signing.WithDeriver(deriver),
		signing.WithObserver(m),
	)
}

func NewI18N(cfg config.Server) (*i18n.Service, error) {
	return i18n.New(cfg.I18n)
}
