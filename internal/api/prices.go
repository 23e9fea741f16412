package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// priceResponse is the body of the current-price endpoint. market_price is a
// number, or the string "N/A" when the backend has no price for the ticker.
type priceResponse struct {
	MarketPrice any `json:"market_price"`
}

// GetCurrentPrice retrieves the current market price for one ticker. A nil
// price with a nil error means the backend reported the price unavailable.
func (c *Client) GetCurrentPrice(ctx context.Context, ticker string) (*float64, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	resp, err := c.Get(ctx, "/api/stock/current/"+ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var pr priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch v := pr.MarketPrice.(type) {
	case float64:
		return &v, nil
	case string:
		// "N/A" sentinel; any other string is equally unusable
		return nil, nil
	default:
		return nil, nil
	}
}

// GetCurrentPrices fetches prices for all tickers concurrently and waits for
// every request to settle. Per-ticker failures are captured as nil entries so
// one bad or rate-limited ticker never aborts the rest. The result has an
// entry for every requested ticker.
func (c *Client) GetCurrentPrices(ctx context.Context, tickers []string) map[string]*float64 {
	prices := make(map[string]*float64, len(tickers))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			price, err := c.GetCurrentPrice(ctx, ticker)
			if err != nil {
				c.Logger.Debug().Str("ticker", ticker).Err(err).Msg("price unavailable")
				price = nil
			}

			mu.Lock()
			prices[ticker] = price
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return prices
}
