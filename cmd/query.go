package cmd

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"resty.dev/v3"

	"sales_messages/api"
	"sales_messages/internal/sales"
)

// apiURLFlag resolves the --url flag, falling back to the configured HTTP address.
func apiURLFlag(cmd *cobra.Command, url string) (string, error) {
	if url != "" {
		return httpBaseURL(url), nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return httpBaseURL(cfg.HTTP.Addr), nil
}

func newStatsCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show message and adjustment counts of a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := apiURLFlag(cmd, url)
			if err != nil {
				return err
			}
			client := resty.New().SetBaseURL(base)
			defer client.Close()

			var stats api.StatsResponse
			res, err := client.R().
				SetContext(cmd.Context()).
				SetResult(&stats).
				Get("/stats")
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			if res.IsError() {
				return fmt.Errorf("fetch stats: unexpected status %s", res.Status())
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "messages: %d\nadjustments: %d\npaused: %t\n",
				stats.MessageCount, stats.AdjustmentCount, stats.Paused)
			return err
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Base URL of the HTTP API (default from config)")

	return cmd
}

func newProductCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "product <name>",
		Short: "Show the sales totals of one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := apiURLFlag(cmd, url)
			if err != nil {
				return err
			}
			client := resty.New().SetBaseURL(base)
			defer client.Close()

			var product api.ProductResponse
			res, err := client.R().
				SetContext(cmd.Context()).
				SetPathParam("name", args[0]).
				SetResult(&product).
				Get("/products/{name}")
			if err != nil {
				return fmt.Errorf("fetch product: %w", err)
			}
			if res.StatusCode() == http.StatusNotFound {
				return fmt.Errorf("product %q has no recorded sales", args[0])
			}
			if res.IsError() {
				return fmt.Errorf("fetch product: unexpected status %s", res.Status())
			}

			total, err := decimal.NewFromString(product.TotalSales)
			if err != nil {
				return fmt.Errorf("decode total sales: %w", err)
			}
			return sales.WriteTable(cmd.OutOrStdout(), []sales.LedgerEntry{{
				Name:       product.Name,
				Quantity:   product.Quantity,
				TotalPrice: total,
			}})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Base URL of the HTTP API (default from config)")

	return cmd
}
