// Package client is the Go consumer of the transaction API: a thin REST
// client plus a single-user projection that refreshes itself after every
// mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

// ErrTransient marks failures worth retrying: transport errors, 5xx
// responses and rate limiting.
var ErrTransient = errors.New("transient transport failure")

// Projection is a point-in-time view of one user's transactions and totals.
type Projection struct {
	Transactions []core.Transaction
	Summary      core.Summary
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type listResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	TotalSpend   core.Money         `json:"totalSpend"`
	TotalEarned  core.Money         `json:"totalEarned"`
	TotalBalance core.Money         `json:"totalBalance"`
}

type createResponse struct {
	Message     string           `json:"message"`
	Transaction core.Transaction `json:"transaction"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// FetchTransactions loads the user's projection. A 404 means the user has
// no transactions yet and yields an empty projection, not an error.
func (c *Client) FetchTransactions(ctx context.Context, userID string) (Projection, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/transactions/"+userID, nil)
	if err != nil {
		return Projection{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Projection{}, nil
	}
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return Projection{}, err
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Projection{}, fmt.Errorf("decode transactions: %w", err)
	}
	return Projection{
		Transactions: body.Transactions,
		Summary: core.Summary{
			TotalIncome:  body.TotalEarned,
			TotalExpense: body.TotalSpend,
			Balance:      body.TotalBalance,
		},
	}, nil
}

// CreateTransaction posts a new transaction for the user.
func (c *Client) CreateTransaction(ctx context.Context, d core.Draft) (core.Transaction, error) {
	payload := map[string]any{
		"userId":      d.UserID,
		"title":       d.Title,
		"description": d.Description,
		"category":    d.Category,
		"amount":      d.Amount,
	}
	if !d.Date.IsZero() {
		payload["date"] = d.Date.UTC().Format(time.RFC3339)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("encode transaction: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/transactions", bytes.NewReader(raw))
	if err != nil {
		return core.Transaction{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusCreated); err != nil {
		return core.Transaction{}, err
	}

	var body createResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.Transaction{}, fmt.Errorf("decode created transaction: %w", err)
	}
	return body.Transaction, nil
}

// DeleteTransaction removes the transaction owned by userID.
func (c *Client) DeleteTransaction(ctx context.Context, id, userID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/transactions/"+id+"/"+userID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return core.ErrNotFound
	}
	return checkStatus(resp, http.StatusOK)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return resp, nil
}

// checkStatus maps non-ok statuses onto the error taxonomy.
func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}

	msg := serverMessage(resp)
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", core.ErrValidation, msg)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrTransient, resp.StatusCode, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
}

func serverMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.Status
	}
	var body errorResponse
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}
