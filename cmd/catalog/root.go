package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/catalog-service/internal/config"
	"github.com/Sternrassler/catalog-service/pkg/logging"
)

// cli carries state shared by all subcommands.
type cli struct {
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog query service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logging.Setup(logging.Config{
				Level:   logging.LogLevel(cfg.Log.Level),
				Pretty:  cfg.Log.Pretty,
				Output:  os.Stderr,
				Service: "catalog",
			})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CATALOG_CONFIG"), "config file (yaml, json or toml)")

	root.AddCommand(
		newServeCmd(c),
		newMigrateCmd(c),
		newSeedCmd(c),
		newQueryCmd(c),
		newShellCmd(c),
		newProductCmd(c),
		newCategoryCmd(c),
	)
	return root
}
