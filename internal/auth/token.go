package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Token represents a short-lived identity token with its expiry.
type Token struct {
	IDToken   string
	ExpiresAt int64
}

// TokenRequest is the request body for the identity provider's token endpoint.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents the identity provider's token exchange response.
type TokenResponse struct {
	IDToken   string `json:"id_token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Exchange trades a long-lived refresh token for a short-lived ID token.
// It calls the identity provider's token endpoint.
func Exchange(ctx context.Context, baseURL, refreshToken string) (*Token, error) {
	url := baseURL + "/v1/token"

	body, err := json.Marshal(TokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		if len(respBody) > 0 {
			return nil, fmt.Errorf("token exchange failed: %d - %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("token exchange failed: %d", resp.StatusCode)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if tokenResp.IDToken == "" {
		return nil, fmt.Errorf("empty ID token in response")
	}

	return &Token{
		IDToken:   tokenResp.IDToken,
		ExpiresAt: time.Now().Unix() + tokenResp.ExpiresIn,
	}, nil
}
