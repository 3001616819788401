// Package client is the HTTP implementation of ledger.Gateway, talking to
// the REST API that fronts the user store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dedovbet/backend/internal/ledger"
	"github.com/dedovbet/backend/internal/models"
)

// Client calls the betting API. Safe to share across sessions.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ledger.Gateway = (*Client)(nil)

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// apiResponse is the server's {success, ...} envelope. Only the fields the
// particular endpoint fills are ever read.
type apiResponse struct {
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
	Balance       decimal.Decimal       `json:"balance"`
	TransactionID string                `json:"transactionId"`
	Transactions  []models.Transaction  `json:"transactions"`
	User          *models.PublicAccount `json:"user"`
	Token         string                `json:"token"`
}

// Register creates an account and returns it with a session token.
func (c *Client) Register(ctx context.Context, params map[string]any) (*models.PublicAccount, string, error) {
	resp, err := c.post(ctx, "/api/register", params)
	if err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

// Login authenticates by username or email.
func (c *Client) Login(ctx context.Context, loginInput, password string) (*models.PublicAccount, string, error) {
	resp, err := c.post(ctx, "/api/login", map[string]any{
		"loginInput": loginInput,
		"password":   password,
	})
	if err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *Client) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	resp, err := c.get(ctx, "/api/getBalance", url.Values{"username": {username}})
	if err != nil {
		return decimal.Zero, err
	}
	return resp.Balance, nil
}

func (c *Client) Deposit(ctx context.Context, username string, amount decimal.Decimal, method string) (decimal.Decimal, string, error) {
	resp, err := c.post(ctx, "/api/deposit", map[string]any{
		"username": username,
		"amount":   amount,
		"method":   method,
	})
	if err != nil {
		return decimal.Zero, "", err
	}
	return resp.Balance, resp.TransactionID, nil
}

func (c *Client) Withdraw(ctx context.Context, username string, amount decimal.Decimal, method string) (decimal.Decimal, string, error) {
	resp, err := c.post(ctx, "/api/withdraw", map[string]any{
		"username": username,
		"amount":   amount,
		"method":   method,
	})
	if err != nil {
		return decimal.Zero, "", err
	}
	return resp.Balance, resp.TransactionID, nil
}

func (c *Client) UpdateBalance(ctx context.Context, username string, balance decimal.Decimal) (decimal.Decimal, error) {
	resp, err := c.post(ctx, "/api/updateBalance", map[string]any{
		"username": username,
		"balance":  balance,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return resp.Balance, nil
}

func (c *Client) SaveTransaction(ctx context.Context, username string, tx models.Transaction) error {
	_, err := c.post(ctx, "/api/saveTransaction", map[string]any{
		"username":    username,
		"transaction": tx,
	})
	return err
}

func (c *Client) Transactions(ctx context.Context, username string) ([]models.Transaction, error) {
	resp, err := c.get(ctx, "/api/transactions", url.Values{"username": {username}})
	if err != nil {
		return nil, err
	}
	if resp.Transactions == nil {
		return []models.Transaction{}, nil
	}
	return resp.Transactions, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer res.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("request to %s failed with status %d", req.URL.Path, res.StatusCode)
		}
		return nil, &ledger.StoreError{Message: msg}
	}

	return &resp, nil
}
