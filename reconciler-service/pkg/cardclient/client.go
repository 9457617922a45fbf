/**
 * @description
 * This package provides the card count lookup used by the integrity sweep to
 * spot accounts holding more cards than the issuance rules allow.
 */
package cardclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the card service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new card service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CountByAccount returns the number of cards issued against an account.
func (c *Client) CountByAccount(ctx context.Context, accountID string) (int, error) {
	url := fmt.Sprintf("%s/api/cards/count/account/%s", c.baseURL, accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call card service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("card service returned status %d", resp.StatusCode)
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return count, nil
}
