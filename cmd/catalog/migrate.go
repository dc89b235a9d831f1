package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/catalog-service/pkg/storage/sqlstore"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := sqlstore.Open(ctx, sqlstore.Config{
				Driver:       c.cfg.Database.Driver,
				DSN:          c.cfg.Database.DSN,
				MaxOpenConns: c.cfg.Database.MaxOpenConns,
			}, c.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			v, dirty, err := store.MigrationVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", v, dirty)
			return nil
		},
	}
}
