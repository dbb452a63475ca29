package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/handlers/common"
	"github/chapool/go-docsign/internal/api/router"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/data/fixtures"
	"github/chapool/go-docsign/internal/util/command"
)

const (
	probeFlag        = "probe"
	seedFlag         = "seed"
	listenFlag       = "listen"
	expiryWorkerFlag = "expiry-worker"

	shutdownTimeout = 10 * time.Second
)

func New() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the document signing gateway

Requires configuration through ENV. Flags override
the corresponding ENV_VARS.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), applyFlags(v, config.DefaultServiceConfigFromEnv()), v)
		},
	}

	cmd.Flags().BoolP(probeFlag, "p", false, "Probe readiness before startup.")
	cmd.Flags().BoolP(seedFlag, "s", false, "Seed demo sessions before startup.")
	cmd.Flags().StringP(listenFlag, "l", "", "Listen address, overrides SERVER_ECHO_LISTEN_ADDRESS.")
	cmd.Flags().Bool(expiryWorkerFlag, true, "Run the session expiry worker, overrides SESSION_EXPIRY_WORKER_ENABLED.")

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind server flags")
	}

	return cmd
}

func applyFlags(v *viper.Viper, cfg config.Server) config.Server {
	if listen := v.GetString(listenFlag); listen != "" {
		cfg.Echo.ListenAddress = listen
	}

	if v.IsSet(expiryWorkerFlag) {
		cfg.Signing.ExpiryWorkerEnabled = v.GetBool(expiryWorkerFlag)
	}

	return cfg
}

func runServer(ctx context.Context, cfg config.Server, v *viper.Viper) error {
	command.SetupLogger(cfg.Logger)

	if err := cfg.Validate(); err != nil {
		return pkgerrors.Wrap(err, "invalid configuration")
	}

	if !cfg.Backend.Configured() {
		log.Warn().Msg("SIGNING_BACKEND_URL or SIGNING_BACKEND_API_KEY is missing, signing requests will fail with NOT_CONFIGURED")
	}

	s, err := api.InitNewServer(cfg)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to initialize server")
	}

	if err := router.Init(s); err != nil {
		return pkgerrors.Wrap(err, "failed to initialize router")
	}

	if v.GetBool(probeFlag) {
		probeCtx, cancel := context.WithTimeout(ctx, cfg.Management.ReadinessTimeout)
		errs := common.ProbeReadiness(probeCtx, s)
		cancel()

		if len(errs) > 0 {
			return pkgerrors.Errorf("readiness probe failed: %v", errs)
		}
	}

	if v.GetBool(seedFlag) {
		n, err := fixtures.Seed(ctx, s.Store, s.Clock.Now())
		if err != nil {
			return pkgerrors.Wrap(err, "failed to seed sessions")
		}
		log.Info().Int("sessions", n).Msg("Seeded demo sessions")
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if cfg.Signing.ExpiryWorkerEnabled {
		startExpiryWorker(workerCtx, s)
	} else {
		log.Warn().Msg("Session expiry worker is disabled, stale sessions only expire when they are signed")
	}

	go func() {
		log.Info().Str("listenAddress", cfg.Echo.ListenAddress).Msg("Starting server")

		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
		return pkgerrors.Errorf("failed to gracefully shut down server: %v", errs)
	}

	log.Info().Msg("Server shut down gracefully")

	return nil
}
