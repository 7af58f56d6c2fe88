package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/internal/domain/port"
)

// GetBalancesUseCase assembles the latest-snapshot view of a user's accounts.
type GetBalancesUseCase struct {
	accounts  port.AccountRepository
	snapshots port.SnapshotRepository
	logger    *slog.Logger
}

// NewGetBalancesUseCase creates a GetBalancesUseCase.
func NewGetBalancesUseCase(accounts port.AccountRepository, snapshots port.SnapshotRepository, logger *slog.Logger) *GetBalancesUseCase {
	return &GetBalancesUseCase{accounts: accounts, snapshots: snapshots, logger: logger}
}

// Execute returns every account with its latest snapshot and the sum across
// accounts. Accounts with no snapshot yet appear with a nil balance and do
// not contribute to the total.
func (uc *GetBalancesUseCase) Execute(ctx context.Context, userID uuid.UUID) (dto.BalancesResponse, error) {
	accounts, err := uc.accounts.ListByUser(ctx, userID)
	if err != nil {
		return dto.BalancesResponse{}, fmt.Errorf("list accounts: %w", err)
	}

	resp := dto.BalancesResponse{
		Accounts:     make([]dto.AccountBalance, 0, len(accounts)),
		TotalBalance: decimal.Zero,
	}

	for _, account := range accounts {
		entry := dto.AccountBalance{AccountResponse: toAccountResponse(account)}

		snapshot, err := uc.snapshots.Latest(ctx, account.ID)
		switch {
		case err == nil:
			balance := snapshot.Balance
			date := snapshot.SnapshotDate
			entry.Balance = &balance
			entry.SnapshotDate = &date
			resp.TotalBalance = resp.TotalBalance.Add(balance)
		case errors.Is(err, model.ErrNotFound):
			// Linked but never synced; shown without a balance.
		default:
			return dto.BalancesResponse{}, fmt.Errorf("latest snapshot for account %s: %w", account.ID, err)
		}

		resp.Accounts = append(resp.Accounts, entry)
	}

	return resp, nil
}
