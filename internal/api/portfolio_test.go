package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockr-hq/stockr-cli/internal/portfolio"
)

func TestClient_GetPortfolio(t *testing.T) {
	tests := []struct {
		name           string
		portfolioID    string
		statusCode     int
		responseBody   string
		wantErr        bool
		wantErrContain string
		validate       func(t *testing.T, holdings []portfolio.Holding)
	}{
		{
			name:        "successful response",
			portfolioID: "pf-123",
			statusCode:  200,
			responseBody: `{
				"portfolio": [
					{"ticker": "AAPL", "shares": 10, "average_cost": 150, "book_value": 1500},
					{"ticker": "MSFT", "shares": 5, "average_cost": 200, "book_value": 1000}
				]
			}`,
			validate: func(t *testing.T, holdings []portfolio.Holding) {
				require.Len(t, holdings, 2)
				assert.Equal(t, "AAPL", holdings[0].Ticker)
				assert.Equal(t, 10.0, holdings[0].Shares)
				assert.Equal(t, 150.0, holdings[0].AverageCost)
				assert.Equal(t, 1500.0, holdings[0].BookValue)
				assert.Equal(t, "MSFT", holdings[1].Ticker)
			},
		},
		{
			name:         "empty portfolio",
			portfolioID:  "pf-empty",
			statusCode:   200,
			responseBody: `{"portfolio": []}`,
			validate: func(t *testing.T, holdings []portfolio.Holding) {
				assert.Empty(t, holdings)
			},
		},
		{
			name:           "API error 401",
			portfolioID:    "pf-123",
			statusCode:     401,
			responseBody:   `{"error": "Unauthorized"}`,
			wantErr:        true,
			wantErrContain: "API error (401)",
		},
		{
			name:           "API error 404",
			portfolioID:    "pf-missing",
			statusCode:     404,
			responseBody:   `{"error": "Portfolio not found or unauthorized"}`,
			wantErr:        true,
			wantErrContain: "Portfolio not found",
		},
		{
			name:           "API error 500",
			portfolioID:    "pf-123",
			statusCode:     500,
			responseBody:   `{"error": "internal server error"}`,
			wantErr:        true,
			wantErrContain: "API error (500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/portfolio/"+tt.portfolioID, r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient(server.URL, StaticToken("test-token"))
			holdings, err := client.GetPortfolio(context.Background(), tt.portfolioID)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrContain)
				assert.Nil(t, holdings)
				return
			}

			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, holdings)
			}
		})
	}
}

func TestClient_GetPortfolio_RequiresID(t *testing.T) {
	client := NewClient("http://localhost:1", StaticToken("tok"))

	holdings, err := client.GetPortfolio(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "portfolio id is required")
	assert.Nil(t, holdings)
}

func TestClient_GetPortfolio_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{invalid json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("tok"))
	holdings, err := client.GetPortfolio(context.Background(), "pf-123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
	assert.Nil(t, holdings)
}

func TestClient_SellAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio/pf-123/sell-asset", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req assetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AAPL", req.Ticker)
		assert.Equal(t, 5.0, req.Shares)
		assert.Equal(t, 210.0, req.Price)

		w.WriteHeader(201)
		_, _ = w.Write([]byte(`{"message": "Transaction recorded and portfolio updated successfully."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("tok"))
	err := client.SellAsset(context.Background(), "pf-123", "AAPL", 5, 210)

	assert.NoError(t, err)
}

func TestClient_SellAsset_InsufficientShares(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		_, _ = w.Write([]byte(`{"error": "Insufficient shares to sell"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("tok"))
	err := client.SellAsset(context.Background(), "pf-123", "AAPL", 999, 210)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient shares")
}

func TestClient_AddAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio/pf-123/add-asset", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req assetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "NVDA", req.Ticker)

		w.WriteHeader(201)
		_, _ = w.Write([]byte(`{"message": "Transaction recorded and portfolio updated successfully."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("tok"))
	err := client.AddAsset(context.Background(), "pf-123", "NVDA", 2, 900)

	assert.NoError(t, err)
}

func TestClient_AddAsset_RequiresID(t *testing.T) {
	client := NewClient("http://localhost:1", StaticToken("tok"))

	err := client.AddAsset(context.Background(), "", "NVDA", 2, 900)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "portfolio id is required")
}
