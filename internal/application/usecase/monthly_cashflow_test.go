package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlens/cashlens/internal/domain/model"
)

func cashflowAccount(token, providerAccountID string, inflow, outflow bool) model.Account {
	return model.Account{
		ID:                uuid.New(),
		ProviderItemID:    "item-" + token,
		ProviderAccountID: providerAccountID,
		AccessToken:       token,
		IsInflow:          inflow,
		IsOutflow:         outflow,
		Active:            true,
	}
}

func txn(providerAccountID, amount string) model.Transaction {
	return model.Transaction{
		ProviderTransactionID: uuid.NewString(),
		ProviderAccountID:     providerAccountID,
		Amount:                decimal.RequireFromString(amount),
	}
}

func TestMonthlyCashflow(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("classifies across credentials", func(t *testing.T) {
		income := cashflowAccount("token-1", "acc-income", true, false)
		spending := cashflowAccount("token-2", "acc-spending", false, true)

		accounts := &mockAccountRepo{
			listByUserFn: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
				return []model.Account{income, spending}, nil
			},
		}
		provider := &mockProvider{
			fetchTransactionsFn: func(ctx context.Context, token string, nowArg time.Time) ([]model.Transaction, error) {
				assert.Equal(t, now, nowArg)
				switch token {
				case "token-1":
					return []model.Transaction{txn("acc-income", "2500"), txn("acc-income", "-40.25")}, nil
				case "token-2":
					return []model.Transaction{txn("acc-spending", "-119.75")}, nil
				}
				t.Fatalf("unexpected token %q", token)
				return nil, nil
			},
		}

		uc := NewMonthlyCashflowUseCase(accounts, provider, testLogger())
		resp, err := uc.Execute(context.Background(), userID, now)
		require.NoError(t, err)

		assert.True(t, resp.MonthlyInflow.Equal(decimal.NewFromInt(2500)))
		// Spending from the inflow account counts as outflow too.
		assert.True(t, resp.MonthlyOutflow.Equal(decimal.RequireFromString("160")))
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), resp.PeriodStart)
		assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), resp.PeriodEnd)
		assert.Zero(t, resp.SkippedItems)
	})

	t.Run("shared credential fetched once", func(t *testing.T) {
		a1 := cashflowAccount("token-1", "acc-1", true, false)
		a2 := cashflowAccount("token-1", "acc-2", false, true)

		accounts := &mockAccountRepo{
			listByUserFn: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
				return []model.Account{a1, a2}, nil
			},
		}
		fetches := 0
		provider := &mockProvider{
			fetchTransactionsFn: func(ctx context.Context, token string, nowArg time.Time) ([]model.Transaction, error) {
				fetches++
				return []model.Transaction{txn("acc-1", "100"), txn("acc-2", "-30")}, nil
			},
		}

		uc := NewMonthlyCashflowUseCase(accounts, provider, testLogger())
		resp, err := uc.Execute(context.Background(), userID, now)
		require.NoError(t, err)

		assert.Equal(t, 1, fetches)
		assert.True(t, resp.MonthlyInflow.Equal(decimal.NewFromInt(100)))
		assert.True(t, resp.MonthlyOutflow.Equal(decimal.NewFromInt(30)))
	})

	t.Run("failed credential skipped, totals partial", func(t *testing.T) {
		good := cashflowAccount("token-good", "acc-good", true, false)
		bad := cashflowAccount("token-bad", "acc-bad", false, true)

		accounts := &mockAccountRepo{
			listByUserFn: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
				return []model.Account{good, bad}, nil
			},
		}
		provider := &mockProvider{
			fetchTransactionsFn: func(ctx context.Context, token string, nowArg time.Time) ([]model.Transaction, error) {
				if token == "token-bad" {
					return nil, errors.New("upstream timeout")
				}
				return []model.Transaction{txn("acc-good", "777")}, nil
			},
		}

		uc := NewMonthlyCashflowUseCase(accounts, provider, testLogger())
		resp, err := uc.Execute(context.Background(), userID, now)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.SkippedItems)
		assert.True(t, resp.MonthlyInflow.Equal(decimal.NewFromInt(777)))
		assert.True(t, resp.MonthlyOutflow.IsZero())
	})

	t.Run("uncategorized and reauth accounts excluded", func(t *testing.T) {
		uncategorized := cashflowAccount("token-1", "acc-1", false, false)
		reauth := cashflowAccount("token-2", "acc-2", true, false)
		reauth.NeedsReauth = true

		accounts := &mockAccountRepo{
			listByUserFn: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
				return []model.Account{uncategorized, reauth}, nil
			},
		}
		provider := &mockProvider{
			fetchTransactionsFn: func(ctx context.Context, token string, nowArg time.Time) ([]model.Transaction, error) {
				t.Fatal("no fetch expected without eligible accounts")
				return nil, nil
			},
		}

		uc := NewMonthlyCashflowUseCase(accounts, provider, testLogger())
		resp, err := uc.Execute(context.Background(), userID, now)
		require.NoError(t, err)
		assert.True(t, resp.MonthlyInflow.IsZero())
		assert.True(t, resp.MonthlyOutflow.IsZero())
	})
}
