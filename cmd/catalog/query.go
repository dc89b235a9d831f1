package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
)

func newQueryCmd(c *cli) *cobra.Command {
	var (
		req    catalog.Request
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a catalog query and print the page",
		Example: `  catalog query --q 'price < 20 && currency == "USD"' --order-by 'price desc'
  catalog query --page 2 --page-size 50 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Query.Timeout)
			defer cancel()

			a, err := newApp(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.service.Query(ctx, req)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, asJSON)
		},
	}
	cmd.Flags().StringVarP(&req.Filter, "q", "q", "", "filter expression")
	cmd.Flags().StringVar(&req.OrderBy, "order-by", "", "order, e.g. 'price desc, name'")
	cmd.Flags().IntVar(&req.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&req.PageSize, "page-size", catalog.DefaultPageSize, "page size (1-100)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the paged result as JSON")
	return cmd
}

func printResult(w io.Writer, res *catalog.PagedResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if err := printProducts(w, res.Items); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d items, %d per page)\n",
		res.Page, res.TotalPages, res.TotalCount, res.PageSize)
	return err
}

func printProducts(w io.Writer, items []catalog.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY\tCREATED")
	for _, p := range items {
		category := "-"
		if p.Category != nil {
			category = p.Category.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n",
			p.ID, p.Name, p.Price.StringFixed(2), p.Currency, category, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
