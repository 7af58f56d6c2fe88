// Package openbanking provides data types and the client interface for the
// account-aggregation provider boundary (Plaid-style account linking,
// balance refresh, and windowed transaction fetch).
//
// Amounts are normalized to decimals on ingress; no numeric-or-string
// ambiguity is carried past this package.
package openbanking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount represents an external account linked under an item.
type BankAccount struct {
	// AccountID is the provider-assigned identifier, unique within an item.
	AccountID string
	// Name is the account display name (e.g. "Plaid Checking").
	Name string
	// OfficialName is the institution's official account name.
	OfficialName string
	// Type is the provider account type (depository, credit, ...).
	Type string
	// Subtype provides additional classification (checking, savings, ...).
	Subtype string
	// Mask is the last 4 digits of the account number.
	Mask string
	// InstitutionName is the human-readable institution name.
	InstitutionName string
	// CurrentBalance is the current balance, nil when the provider did not
	// report one for this account.
	CurrentBalance *decimal.Decimal
}

// Transaction is a provider transaction as reported on the wire.
// Amount keeps the provider's sign convention: positive means money moving
// out of the account (a debit), negative means money moving in.
type Transaction struct {
	TransactionID string
	AccountID     string
	Amount        decimal.Decimal
	Date          time.Time
	Name          string
	MerchantName  string
	Pending       bool
}

// TransactionPage is one page of a windowed transaction fetch.
type TransactionPage struct {
	Transactions []Transaction
	// Total is the provider-reported total number of transactions in the
	// requested window, across all pages.
	Total int
}

// LinkTokenResponse is returned when creating a link token.
type LinkTokenResponse struct {
	LinkToken  string
	Expiration time.Time
	RequestID  string
}

// ItemAccessResponse is returned after exchanging a public token.
type ItemAccessResponse struct {
	AccessToken     string
	ItemID          string
	InstitutionName string
	Accounts        []BankAccount
}

// MaxPageSize is the provider's maximum transactions-per-page.
const MaxPageSize = 500

// Client is the capability interface for provider operations. Implementations
// may be real HTTP clients or stubs for testing.
type Client interface {
	// CreateLinkToken generates a link token for initializing the link flow.
	CreateLinkToken(ctx context.Context, userID string) (LinkTokenResponse, error)

	// ExchangePublicToken exchanges a public token from the link flow for a
	// persistent access token and the accounts available under it.
	ExchangePublicToken(ctx context.Context, publicToken string) (ItemAccessResponse, error)

	// GetBalances retrieves current balances for all accounts under an
	// access token in one call.
	GetBalances(ctx context.Context, accessToken string) ([]BankAccount, error)

	// GetTransactionsPage fetches one page of transactions in the
	// [startDate, endDate] window using count/offset pagination.
	GetTransactionsPage(ctx context.Context, accessToken string, startDate, endDate time.Time, count, offset int) (TransactionPage, error)
}
