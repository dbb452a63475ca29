package probe

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/api/handlers/common"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/util/command"
)

func newLiveness() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long: `This command runs the liveness probes of the
configured store, the signing backend configuration
and the chain id resolution.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				ctx, cancel := context.WithTimeout(ctx, cfg.Management.LivenessTimeout)
				defer cancel()

				lines, errs := common.ProbeLiveness(ctx, s)
				if verbose {
					for _, line := range lines {
						fmt.Fprintln(cmd.OutOrStdout(), line)
					}
				}

				return probeResult(cmd, "liveness", errs)
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func probeResult(cmd *cobra.Command, probe string, errs []error) error {
	for _, err := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	if len(errs) > 0 {
		return errors.Errorf("%s probe failed with %d error(s)", probe, len(errs))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s probe passed\n", probe)

	return nil
}
