package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-docsign/cmd/db"
	"github/chapool/go-docsign/cmd/env"
	"github/chapool/go-docsign/cmd/probe"
	"github/chapool/go-docsign/cmd/server"
	"github/chapool/go-docsign/cmd/sign"
	"github/chapool/go-docsign/cmd/wallet"
	"github/chapool/go-docsign/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "app",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

A document signing gateway in front of a web3 signing backend.
Requires configuration through ENV, .env.local and .env are loaded if present.`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cobra.OnInitialize(func() {
		config.LoadEnvFiles(".env.local", ".env")
	})

	// attach the subcommands
	rootCmd.AddCommand(
		db.New(),
		env.New(),
		probe.New(),
		server.New(),
		sign.New(),
		wallet.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
