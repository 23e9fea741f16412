package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockr-hq/stockr-cli/internal/output"
)

// newQuoteCmd creates the quote command with the given options.
func newQuoteCmd(opts clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote TICKER",
		Short: "Show the current market price for a ticker",
		Long: `Fetch the current market price for a single ticker.

Example:
  stockr quote AAPL
  stockr quote msft --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, opts, strings.ToUpper(args[0]))
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func runQuote(cmd *cobra.Command, opts clientOptions, ticker string) error {
	client, _, err := newAPIClient(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	price, err := client.GetCurrentPrice(ctx, ticker)
	if err != nil {
		return err
	}

	if GetJSONMode() {
		f := output.New(cmd.OutOrStdout(), true)
		result := map[string]any{"ticker": ticker}
		if price != nil {
			result["market_price"] = *price
		} else {
			result["market_price"] = nil
		}
		return f.Print(result)
	}

	if price == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: N/A\n", ticker)
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: $%.2f\n", ticker, *price)
	return nil
}

func init() {
	rootCmd.AddCommand(newQuoteCmd(defaultClientOptions()))
}
