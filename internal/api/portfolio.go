package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/stockr-hq/stockr-cli/internal/portfolio"
)

// portfolioResponse is the envelope for the holdings endpoint.
type portfolioResponse struct {
	Portfolio []portfolio.Holding `json:"portfolio"`
}

// GetPortfolio retrieves the holdings for the given portfolio. The backend's
// ordering is preserved; it determines row order and color assignment
// downstream.
func (c *Client) GetPortfolio(ctx context.Context, portfolioID string) ([]portfolio.Holding, error) {
	if portfolioID == "" {
		return nil, fmt.Errorf("portfolio id is required")
	}

	resp, err := c.Get(ctx, "/api/portfolio/"+portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var pr portfolioResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return pr.Portfolio, nil
}

// assetRequest is the payload for the sell-asset and add-asset endpoints.
type assetRequest struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
}

// SellAsset records a sell transaction against the portfolio. The backend
// recalculates the holding; callers refetch the portfolio afterwards.
func (c *Client) SellAsset(ctx context.Context, portfolioID, ticker string, shares, price float64) error {
	return c.postAsset(ctx, portfolioID, "sell-asset", ticker, shares, price)
}

// AddAsset records a buy transaction against the portfolio.
func (c *Client) AddAsset(ctx context.Context, portfolioID, ticker string, shares, price float64) error {
	return c.postAsset(ctx, portfolioID, "add-asset", ticker, shares, price)
}

func (c *Client) postAsset(ctx context.Context, portfolioID, action, ticker string, shares, price float64) error {
	if portfolioID == "" {
		return fmt.Errorf("portfolio id is required")
	}

	body, err := json.Marshal(assetRequest{
		Ticker: ticker,
		Shares: shares,
		Price:  price,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	path := fmt.Sprintf("/api/portfolio/%s/%s", portfolioID, action)
	resp, err := c.Post(ctx, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post transaction: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return CheckResponse(resp)
}
