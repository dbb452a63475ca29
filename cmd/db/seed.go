package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/data/fixtures"
	"github/chapool/go-docsign/internal/util/command"
)

func newSeed() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Inserts demo sessions",
		Long: `Inserts one demo session per status into the configured
session store. Existing demo sessions are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				if cfg.Store.Driver == config.StoreDriverMemory {
					log.Warn().Msg("Seeding the memory store, the sessions are gone once this command exits")
				}

				n, err := fixtures.Seed(ctx, s.Store, s.Clock.Now())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d sessions\n", n)

				return nil
			})
		},
	}
}
