package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/catalog-service/internal/seed"
	"github.com/Sternrassler/catalog-service/pkg/logging"
)

func newSeedCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and products from a JSON seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Migrate(ctx); err != nil {
				return err
			}

			sum, err := seed.NewLoader(a.admin, logging.NewLogger("seed")).Load(ctx, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "categories: %d created, %d existing\nproducts: %d created, %d existing\n",
				sum.CategoriesCreated, sum.CategoriesExisted, sum.ProductsCreated, sum.ProductsExisted)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
