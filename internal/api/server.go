package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github/chapool/go-docsign/internal/chain"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/i18n"
	"github/chapool/go-docsign/internal/metrics"
	"github/chapool/go-docsign/internal/signing"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/util"
	"github/chapool/go-docsign/internal/wallet"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

type Router struct {
	Routes       []*echo.Route
	Root         *echo.Group
	Management   *echo.Group
	APIV1Signing *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	// -> optional connections of the store driver, nil for the memory store
	DB    *sql.DB       `wire:"-"`
	Redis *redis.Client `wire:"-"`

	Config  config.Server
	I18n    *i18n.Service
	Clock   time2.Clock
	Metrics *metrics.Service
	Store   store.Store
	Backend signing.Backend
	Chain   chain.Resolver
	Wallet  wallet.Deriver
	Signing signing.Service
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	db *sql.DB,
	rdb *redis.Client,
	i18n *i18n.Service,
	clock time2.Clock,
	metrics *metrics.Service,
	st store.Store,
	backend signing.Backend,
	resolver chain.Resolver,
	deriver wallet.Deriver,
	signingService signing.Service,
) *Server {
	return &Server{
		DB:      db,
		Redis:   rdb,
		Config:  cfg,
		I18n:    i18n,
		Clock:   clock,
		Metrics: metrics,
		Store:   st,
		Backend: backend,
		Chain:   resolver,
		Wallet:  deriver,
		Signing: signingService,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if rpc, ok := s.Chain.(*chain.RPC); ok {
		log.Debug().Msg("Closing RPC connections")
		rpc.Close()
	}

	if s.DB != nil {
		log.Debug().Msg("Closing database connection")

		if err := s.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, err)
		}
	}

	if s.Redis != nil {
		log.Debug().Msg("Closing redis connection")

		if err := s.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			log.Error().Err(err).Msg("Failed to close redis connection")
			errs = append(errs, err)
		}
	}

	return errs
}
