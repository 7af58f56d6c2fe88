package openbanking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// PlaidConfig holds configuration for the Plaid HTTP client.
type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
	BaseURL     string
}

// DefaultPlaidConfig returns configuration defaults for the Plaid sandbox.
func DefaultPlaidConfig() PlaidConfig {
	return PlaidConfig{
		Environment: "sandbox",
		BaseURL:     "https://sandbox.plaid.com",
	}
}

// PlaidHTTPClient implements Client against the Plaid REST API.
type PlaidHTTPClient struct {
	config PlaidConfig
	http   *http.Client
}

// NewPlaidHTTPClient creates a Plaid client. If httpClient is nil a client
// with a 30 second timeout is used.
func NewPlaidHTTPClient(cfg PlaidConfig, httpClient *http.Client) *PlaidHTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &PlaidHTTPClient{config: cfg, http: httpClient}
}

// --- wire shapes ---

type plaidError struct {
	ErrorCode    string `json:"error_code"`
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

type plaidBalances struct {
	Current   *json.Number `json:"current"`
	Available *json.Number `json:"available"`
}

type plaidAccount struct {
	AccountID    string        `json:"account_id"`
	Name         string        `json:"name"`
	OfficialName string        `json:"official_name"`
	Type         string        `json:"type"`
	Subtype      string        `json:"subtype"`
	Mask         string        `json:"mask"`
	Balances     plaidBalances `json:"balances"`
}

type plaidTransaction struct {
	TransactionID string      `json:"transaction_id"`
	AccountID     string      `json:"account_id"`
	Amount        json.Number `json:"amount"`
	Date          string      `json:"date"`
	Name          string      `json:"name"`
	MerchantName  string      `json:"merchant_name"`
	Pending       bool        `json:"pending"`
}

// CreateLinkToken generates a link token for the given user.
func (c *PlaidHTTPClient) CreateLinkToken(ctx context.Context, userID string) (LinkTokenResponse, error) {
	req := map[string]any{
		"client_id":     c.config.ClientID,
		"secret":        c.config.Secret,
		"client_name":   "cashlens",
		"language":      "en",
		"country_codes": []string{"US"},
		"user":          map[string]string{"client_user_id": userID},
		"products":      []string{"transactions"},
	}

	var resp struct {
		LinkToken  string `json:"link_token"`
		Expiration string `json:"expiration"`
		RequestID  string `json:"request_id"`
	}
	if err := c.post(ctx, "/link/token/create", req, &resp); err != nil {
		return LinkTokenResponse{}, err
	}

	expiration, err := time.Parse(time.RFC3339, resp.Expiration)
	if err != nil {
		return LinkTokenResponse{}, fmt.Errorf("parse link token expiration: %w", err)
	}

	return LinkTokenResponse{
		LinkToken:  resp.LinkToken,
		Expiration: expiration,
		RequestID:  resp.RequestID,
	}, nil
}

// ExchangePublicToken exchanges a public token for a persistent access token
// and loads the accounts available under the new item.
func (c *PlaidHTTPClient) ExchangePublicToken(ctx context.Context, publicToken string) (ItemAccessResponse, error) {
	req := map[string]any{
		"client_id":    c.config.ClientID,
		"secret":       c.config.Secret,
		"public_token": publicToken,
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	if err := c.post(ctx, "/item/public_token/exchange", req, &resp); err != nil {
		return ItemAccessResponse{}, err
	}

	accounts, institution, err := c.getAccounts(ctx, resp.AccessToken)
	if err != nil {
		return ItemAccessResponse{}, err
	}

	return ItemAccessResponse{
		AccessToken:     resp.AccessToken,
		ItemID:          resp.ItemID,
		InstitutionName: institution,
		Accounts:        accounts,
	}, nil
}

// GetBalances retrieves current balances for all accounts under the token.
func (c *PlaidHTTPClient) GetBalances(ctx context.Context, accessToken string) ([]BankAccount, error) {
	accounts, _, err := c.getAccounts(ctx, accessToken)
	return accounts, err
}

func (c *PlaidHTTPClient) getAccounts(ctx context.Context, accessToken string) ([]BankAccount, string, error) {
	req := map[string]any{
		"client_id":    c.config.ClientID,
		"secret":       c.config.Secret,
		"access_token": accessToken,
	}

	var resp struct {
		Accounts []plaidAccount `json:"accounts"`
		Item     struct {
			InstitutionName string `json:"institution_name"`
		} `json:"item"`
	}
	if err := c.post(ctx, "/accounts/balance/get", req, &resp); err != nil {
		return nil, "", err
	}

	accounts := make([]BankAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		acct := BankAccount{
			AccountID:       a.AccountID,
			Name:            a.Name,
			OfficialName:    a.OfficialName,
			Type:            a.Type,
			Subtype:         a.Subtype,
			Mask:            a.Mask,
			InstitutionName: resp.Item.InstitutionName,
		}
		if a.Balances.Current != nil {
			d, err := decimal.NewFromString(a.Balances.Current.String())
			if err != nil {
				return nil, "", fmt.Errorf("parse balance for account %s: %w", a.AccountID, err)
			}
			acct.CurrentBalance = &d
		}
		accounts = append(accounts, acct)
	}

	return accounts, resp.Item.InstitutionName, nil
}

// GetTransactionsPage fetches one page of transactions in the window.
func (c *PlaidHTTPClient) GetTransactionsPage(ctx context.Context, accessToken string, startDate, endDate time.Time, count, offset int) (TransactionPage, error) {
	req := map[string]any{
		"client_id":    c.config.ClientID,
		"secret":       c.config.Secret,
		"access_token": accessToken,
		"start_date":   startDate.Format(dateLayout),
		"end_date":     endDate.Format(dateLayout),
		"options": map[string]int{
			"count":  count,
			"offset": offset,
		},
	}

	var resp struct {
		Transactions      []plaidTransaction `json:"transactions"`
		TotalTransactions int                `json:"total_transactions"`
	}
	if err := c.post(ctx, "/transactions/get", req, &resp); err != nil {
		return TransactionPage{}, err
	}

	txns := make([]Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		amount, err := decimal.NewFromString(t.Amount.String())
		if err != nil {
			return TransactionPage{}, fmt.Errorf("parse amount for transaction %s: %w", t.TransactionID, err)
		}
		date, err := time.Parse(dateLayout, t.Date)
		if err != nil {
			return TransactionPage{}, fmt.Errorf("parse date for transaction %s: %w", t.TransactionID, err)
		}
		txns = append(txns, Transaction{
			TransactionID: t.TransactionID,
			AccountID:     t.AccountID,
			Amount:        amount,
			Date:          date,
			Name:          t.Name,
			MerchantName:  t.MerchantName,
			Pending:       t.Pending,
		})
	}

	return TransactionPage{Transactions: txns, Total: resp.TotalTransactions}, nil
}

// post issues a JSON POST and decodes the response into out. Non-2xx
// responses are decoded into *Error so callers can inspect the code.
func (c *PlaidHTTPClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pe plaidError
		if err := json.Unmarshal(data, &pe); err != nil || pe.ErrorCode == "" {
			return fmt.Errorf("call %s: unexpected status %d", path, resp.StatusCode)
		}
		return &Error{
			Code:      pe.ErrorCode,
			Type:      pe.ErrorType,
			Message:   pe.ErrorMessage,
			RequestID: pe.RequestID,
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}
