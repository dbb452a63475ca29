package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/router"
	"github/chapool/go-docsign/internal/config"
	"golang.org/x/text/language"
)

// DefaultTestConfig returns the environment config with a memory store and
// without the middleware that only adds noise to test output.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Store.Driver = config.StoreDriverMemory
	cfg.Echo.EnableLoggerMiddleware = false
	cfg.Echo.EnableRateLimitMiddleware = false
	cfg.Echo.HideInternalServerErrorDetails = false
	cfg.Signing.MaxDocumentSize = 10 << 20
	cfg.Signing.PendingTTL = 24 * time.Hour
	cfg.Signing.ExpiryWorkerEnabled = false
	cfg.Wallet.DemoDerivationEnabled = true
	cfg.Chain.RPCURLs = nil
	cfg.Chain.DefaultChainID = 1
	cfg.I18n.DefaultLanguage = language.English

	return cfg
}

// WithTestServer executes closure with a fully initialized server talking to
// a FakeBackend.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerAndBackend(t, func(s *api.Server, _ *FakeBackend) {
		t.Helper()
		closure(s)
	})
}

// WithTestServerAndBackend is WithTestServer with access to the FakeBackend.
func WithTestServerAndBackend(t *testing.T, closure func(s *api.Server, fb *FakeBackend)) {
	t.Helper()

	WithTestServerConfigurableAndBackend(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable executes closure with a server using cfg as is.
// The signing backend is whatever cfg.Backend points at.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	s := newTestServer(t, cfg)
	closure(s)
}

// WithTestServerConfigurableAndBackend overrides cfg.Backend with a fresh
// FakeBackend before the server is initialized.
func WithTestServerConfigurableAndBackend(t *testing.T, cfg config.Server, closure func(s *api.Server, fb *FakeBackend)) {
	t.Helper()

	fb := NewFakeBackend(t)
	cfg.Backend = fb.Config()

	s := newTestServer(t, cfg)
	closure(s, fb)
}

func newTestServer(t *testing.T, cfg config.Server) *api.Server {
	t.Helper()

	s, err := api.InitNewServerWithDB(cfg, nil, t)
	require.NoError(t, err, "failed to init server")

	require.NoError(t, router.Init(s), "failed to init router")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Management.LivenessTimeout)
		defer cancel()

		errs := s.Shutdown(ctx)
		require.Empty(t, errs, "failed to shutdown server")
	})

	return s
}
