/**
 * @description
 * This package provides a read-only client for the account-service used by
 * the integrity sweep to page through all accounts.
 */
package accountclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Account is the subset of the account shape the sweep needs.
type Account struct {
	ID         string `json:"id"`
	IBAN       string `json:"iban"`
	CustomerID string `json:"customer_id"`
}

// Client is a client for the account service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new account service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListAccounts fetches one page of accounts.
func (c *Client) ListAccounts(ctx context.Context, limit, offset int) ([]Account, error) {
	url := fmt.Sprintf("%s/api/accounts?limit=%d&offset=%d", c.baseURL, limit, offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call account service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("account service returned status %d", resp.StatusCode)
	}

	var accounts []Account
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return accounts, nil
}
