/**
 * @description
 * This package provides a client for communicating with the account-service.
 * The customer deletion guard depends on the account count reported here, and
 * customer reads are enriched with the account list on a best-effort basis.
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

// Account is the account record shape returned by the account-service.
type Account struct {
	ID         string `json:"id"`
	IBAN       string `json:"iban"`
	BicSwift   string `json:"bic_swift"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
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

// CountByCustomer returns the number of accounts owned by a customer.
func (c *Client) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	url := fmt.Sprintf("%s/api/accounts/count/customer/%s", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call account service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("account service returned status %d", resp.StatusCode)
	}

	var count int64
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return count, nil
}

// ListByCustomer returns the accounts owned by a customer.
func (c *Client) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Account, error) {
	url := fmt.Sprintf("%s/api/accounts/customer/%s", c.baseURL, customerID)

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
