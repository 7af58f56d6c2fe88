// Package adapter bridges the provider client to the domain's provider port.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/pkg/openbanking"
)

// PlaidAdapter implements port.ProviderGateway on top of an openbanking
// client. It owns pagination and sign normalization; it never interprets
// provider error codes — those propagate unchanged to the caller.
type PlaidAdapter struct {
	client openbanking.Client
}

// NewPlaidAdapter creates a provider adapter over the given client.
func NewPlaidAdapter(client openbanking.Client) *PlaidAdapter {
	return &PlaidAdapter{client: client}
}

// CreateLinkToken starts the link flow for a user.
func (a *PlaidAdapter) CreateLinkToken(ctx context.Context, userID string) (openbanking.LinkTokenResponse, error) {
	if userID == "" {
		return openbanking.LinkTokenResponse{}, fmt.Errorf("user ID is required")
	}
	return a.client.CreateLinkToken(ctx, userID)
}

// ExchangePublicToken completes the link flow.
func (a *PlaidAdapter) ExchangePublicToken(ctx context.Context, publicToken string) (openbanking.ItemAccessResponse, error) {
	if publicToken == "" {
		return openbanking.ItemAccessResponse{}, fmt.Errorf("public token is required")
	}
	return a.client.ExchangePublicToken(ctx, publicToken)
}

// FetchBalances fetches current balances for every account under the credential.
func (a *PlaidAdapter) FetchBalances(ctx context.Context, accessToken string) ([]openbanking.BankAccount, error) {
	return a.client.GetBalances(ctx, accessToken)
}

// FetchCurrentMonthTransactions fetches every transaction from the first day
// of now's calendar month through now. The window always starts at the 1st —
// even for accounts linked mid-month — which is what guarantees a full-month
// backfill.
//
// Pages are requested with an offset equal to the number of transactions
// already fetched until the cumulative count reaches the provider-reported
// total.
func (a *PlaidAdapter) FetchCurrentMonthTransactions(ctx context.Context, accessToken string, now time.Time) ([]model.Transaction, error) {
	start := model.FirstOfMonth(now)
	end := model.DateOnly(now)

	var fetched []model.Transaction
	for {
		page, err := a.client.GetTransactionsPage(ctx, accessToken, start, end, openbanking.MaxPageSize, len(fetched))
		if err != nil {
			return nil, err
		}
		if len(page.Transactions) == 0 {
			break
		}

		for _, t := range page.Transactions {
			fetched = append(fetched, model.Transaction{
				ProviderTransactionID: t.TransactionID,
				ProviderAccountID:     t.AccountID,
				// The provider reports debits as positive amounts; flip the
				// sign so that positive means money into the account.
				Amount: t.Amount.Neg(),
				Date:   t.Date,
				Name:   t.Name,
			})
		}

		if len(fetched) >= page.Total {
			break
		}
	}

	return fetched, nil
}
