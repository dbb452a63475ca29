package db

import (
	"fmt"

	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"github/chapool/go-docsign/internal/api"
	"github/chapool/go-docsign/internal/config"
	"github/chapool/go-docsign/internal/signing/store"
	"github/chapool/go-docsign/internal/util/command"
)

const downFlag = "down"

func newMigrate() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Executes all session store migrations",
		Long: `Executes all migrations of the Postgres session store.
The server applies pending migrations on startup as well,
this command is meant for deployments running it as a separate step.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			command.SetupLogger(cfg.Logger)

			if cfg.Store.Driver != config.StoreDriverPostgres {
				return errors.Errorf("migrations require STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.Store.Driver)
			}

			db, err := api.NewDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			direction := migrate.Up
			if down {
				direction = migrate.Down
			}

			n, err := store.Migrate(db, direction)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations\n", n)

			return nil
		},
	}

	cmd.Flags().BoolVar(&down, downFlag, false, "Roll back all migrations instead.")

	return cmd
}
