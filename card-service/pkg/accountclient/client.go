/**
 * @description
 * This package provides a client for communicating with the account-service.
 * The card issuance guard refuses to proceed unless this client returns an
 * explicit boolean: any transport failure is reported as an error so the
 * guard can distinguish "account absent" from "peer unreachable".
 */
package accountclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

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

// AccountExists asks the account-service whether an account exists. The
// response body is a bare JSON boolean.
func (c *Client) AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	url := fmt.Sprintf("%s/api/accounts/exists/%s", c.baseURL, accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call account service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("account service returned status %d", resp.StatusCode)
	}

	var exists bool
	if err := json.NewDecoder(resp.Body).Decode(&exists); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return exists, nil
}
