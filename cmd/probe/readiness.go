package probe

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/handlers/common"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/util/command"
)

func newReadiness() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long:  `This command checks the connections of the configured session store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			if !verbose {
				cfg.Logger.Level = zerolog.WarnLevel
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				ctx, cancel := context.WithTimeout(ctx, cfg.Management.ReadinessTimeout)
				defer cancel()

				return probeResult(cmd, "readiness", common.ProbeReadiness(ctx, s))
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Show verbose output.")

	return cmd
}
