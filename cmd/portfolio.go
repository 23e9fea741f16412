package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockr-hq/stockr-cli/internal/output"
	"github.com/stockr-hq/stockr-cli/internal/portfolio"
)

// newPortfolioCmd creates the portfolio command with the given options.
func newPortfolioCmd(opts clientOptions) *cobra.Command {
	var portfolioID string

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show portfolio holdings with live valuation",
		Long: `Fetch the portfolio holdings and their current market prices, and print
each position's book value, market price and share of the portfolio.

Example:
  stockr portfolio
  stockr portfolio --portfolio 2
  stockr portfolio --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolio(cmd, opts, portfolioID)
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "Portfolio id (defaults to the configured one)")
	cmd.SilenceUsage = true

	return cmd
}

func runPortfolio(cmd *cobra.Command, opts clientOptions, portfolioID string) error {
	client, cfg, err := newAPIClient(opts)
	if err != nil {
		return err
	}

	if portfolioID == "" {
		portfolioID = cfg.PortfolioID
	}
	if portfolioID == "" {
		return fmt.Errorf("no portfolio selected\nPass --portfolio or set a default with: stockr configure")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	holdings, err := client.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return err
	}

	rows := portfolio.WithAllocation(holdings)
	if len(rows) > 0 {
		tickers := make([]string, len(rows))
		for i, r := range rows {
			tickers[i] = r.Ticker
		}
		rows = portfolio.MergePrices(rows, client.GetCurrentPrices(ctx, tickers))
	}

	f := output.New(cmd.OutOrStdout(), GetJSONMode())

	headers := []string{"Ticker", "Shares", "Avg Cost", "Book Value", "Price", "Market Value", "Portfolio %"}
	tableRows := make([][]string, len(rows))
	for i, r := range rows {
		price := "N/A"
		marketValue := "N/A"
		if r.MarketValue != nil {
			price = fmt.Sprintf("$%.2f", *r.MarketValue)
			marketValue = fmt.Sprintf("$%.2f", *r.MarketValue*r.Shares)
		}
		tableRows[i] = []string{
			r.Ticker,
			strconv.FormatFloat(r.Shares, 'f', -1, 64),
			fmt.Sprintf("$%.2f", r.AverageCost),
			fmt.Sprintf("$%.2f", r.BookValue),
			price,
			marketValue,
			fmt.Sprintf("%.2f%%", r.Percentage),
		}
	}

	if err := f.Table(headers, tableRows); err != nil {
		return err
	}

	if !GetJSONMode() {
		bookTotal := portfolio.TotalBookValue(rows)
		marketTotal, known := portfolio.TotalMarketValue(rows)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nBook value: $%.2f\n", bookTotal)
		if known > 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Market value: $%.2f (%d/%d priced)\n", marketTotal, known, len(rows))
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(newPortfolioCmd(defaultClientOptions()))
}
