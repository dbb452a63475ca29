package env

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github/chapool/go-docsign/internal/config"
)

const redacted = "<redacted>"

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the env",
		Long: `Prints the currently applied env

You may use this cmd to get an overview about how
your ENV_VARS are bound by the server config.
Please note that secrets are removed from this output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := json.MarshalIndent(redact(config.DefaultServiceConfigFromEnv()), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal the env: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(c))

			return nil
		},
	}
}

func redact(cfg config.Server) config.Server {
	if cfg.Backend.APIKey != "" {
		cfg.Backend.APIKey = redacted
	}
	if cfg.Store.Database.Password != "" {
		cfg.Store.Database.Password = redacted
	}
	if cfg.Store.Redis.Password != "" {
		cfg.Store.Redis.Password = redacted
	}
	cfg.Wallet.DerivationSalt = redacted

	return cfg
}
