package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
)

// runAdmin opens the store and runs fn against the catalog's write rules.
func runAdmin(cmd *cobra.Command, c *cli, fn func(ctx context.Context, admin *catalog.Admin) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a.admin)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id '%s': %w", s, err)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newProductCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "List, show, update and delete products",
	}
	cmd.AddCommand(
		newProductListCmd(c),
		newProductGetCmd(c),
		newProductUpdateCmd(c),
		newProductDeleteCmd(c),
	)
	return cmd
}

func newProductListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every product, active or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, c, func(ctx context.Context, admin *catalog.Admin) error {
				items, err := admin.ListProducts(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), items)
				}
				return printProducts(cmd.OutOrStdout(), items)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print products as JSON")
	return cmd
}

func newProductGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runAdmin(cmd, c, func(ctx context.Context, admin *catalog.Admin) error {
				p, err := admin.GetProduct(ctx, id)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}

func newProductUpdateCmd(c *cli) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a product's fields with a JSON document",
		Example: `  catalog product update 6f1c1d1e-0000-4000-8000-000000000001 \
    --data '{"name": "Lamp", "price": 24.5, "currency": "EUR", "isActive": true}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p catalog.Product
			dec := json.NewDecoder(strings.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&p); err != nil {
				return fmt.Errorf("%w: %v", catalog.ErrInvalidProduct, err)
			}
			return runAdmin(cmd, c, func(ctx context.Context, admin *catalog.Admin) error {
				updated, err := admin.UpdateProduct(ctx, id, p)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), updated)
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "product JSON")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newProductDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runAdmin(cmd, c, func(ctx context.Context, admin *catalog.Admin) error {
				if err := admin.DeleteProduct(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s\n", id)
				return nil
			})
		},
	}
}

func newCategoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "List, rename and delete categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories by name",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAdmin(cmd, c, func(ctx context.Context, admin *catalog.Admin) error {
					cs, err := admin.ListCategories(ctx)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAME")
					for _, cat := range cs {
						fmt.Fprintf(tw, "%s\t%s\n", cat.ID, cat.Name)
					}
					return tw.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "update <id> <name>",
			Short: "Rename a category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return runAdmin(cmd, c, func(ctx context.Context, admin *catalog.Admin) error {
					cat, err := admin.UpdateCategory(ctx, id, args[1])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "renamed category %s to %s\n", cat.ID, cat.Name)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a category; its products keep no category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return runAdmin(cmd, c, func(ctx context.Context, admin *catalog.Admin) error {
					if err := admin.DeleteCategory(ctx, id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", id)
					return nil
				})
			},
		},
	)
	return cmd
}
