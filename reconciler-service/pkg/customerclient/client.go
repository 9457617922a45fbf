/**
 * @description
 * This package provides the customer existence lookup used by the integrity
 * sweep to spot accounts whose owner has been deleted.
 */
package customerclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the customer service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new customer service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CustomerExists asks the customer-service whether a customer exists.
func (c *Client) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	url := fmt.Sprintf("%s/api/customers/exists/%s", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call customer service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("customer service returned status %d", resp.StatusCode)
	}

	var exists bool
	if err := json.NewDecoder(resp.Body).Decode(&exists); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return exists, nil
}
