package wallet

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/util/command"
)

var errDerivationDisabled = errors.New("demo wallet derivation is disabled, set WALLET_DEMO_DERIVATION_ENABLED=true")

func New() *cobra.Command {
	return command.NewSubcommandGroup("wallet", newDerive())
}

func newDerive() *cobra.Command {
	var showPrivateKey bool

	cmd := &cobra.Command{
		Use:   "derive <identifier>",
		Short: "Prints the demo wallet derived from an identifier",
		Long: `Derives the deterministic demo wallet of an identifier.

WARNING: derived wallets are recomputable by anybody knowing the
identifier and the salt. Never send funds to them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(_ context.Context, s *api.Server) error {
				if !s.Config.Wallet.DemoDerivationEnabled {
					return errDerivationDisabled
				}

				identity, err := s.Wallet.Derive(args[0])
				if err != nil {
					return errors.Wrap(err, "failed to derive wallet")
				}
				defer identity.Zero()

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Scheme:  %s\n", s.Wallet.Scheme())
				fmt.Fprintf(w, "Address: %s\n", identity.Address)

				if showPrivateKey {
					fmt.Fprintf(w, "Key:     %s\n", identity.PrivateKeyHex())
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showPrivateKey, "show-private-key", false, "Also print the derived private key")

	return cmd
}
