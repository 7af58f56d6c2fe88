package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/internal/domain/port"
)

// BalanceHistoryUseCase assembles per-account and aggregate snapshot series
// over a date range.
type BalanceHistoryUseCase struct {
	accounts  port.AccountRepository
	snapshots port.SnapshotRepository
	logger    *slog.Logger
}

// NewBalanceHistoryUseCase creates a BalanceHistoryUseCase.
func NewBalanceHistoryUseCase(accounts port.AccountRepository, snapshots port.SnapshotRepository, logger *slog.Logger) *BalanceHistoryUseCase {
	return &BalanceHistoryUseCase{accounts: accounts, snapshots: snapshots, logger: logger}
}

// Execute returns each account's series inside [start, end] plus an aggregate
// series. Snapshot dates are not assumed aligned across accounts: each
// distinct date contributes the sum of balances from whichever accounts
// reported that date. Missing values are never carried forward.
func (uc *BalanceHistoryUseCase) Execute(ctx context.Context, userID uuid.UUID, start, end time.Time) (dto.BalanceHistoryResponse, error) {
	start = model.DateOnly(start)
	end = model.DateOnly(end)

	accounts, err := uc.accounts.ListByUser(ctx, userID)
	if err != nil {
		return dto.BalanceHistoryResponse{}, fmt.Errorf("list accounts: %w", err)
	}

	ids := make([]uuid.UUID, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	snapshots, err := uc.snapshots.RangeForAccounts(ctx, ids, start, end)
	if err != nil {
		return dto.BalanceHistoryResponse{}, fmt.Errorf("snapshot range: %w", err)
	}

	byAccount := make(map[uuid.UUID][]dto.SnapshotPoint)
	byDate := make(map[time.Time]decimal.Decimal)
	for _, s := range snapshots {
		byAccount[s.AccountID] = append(byAccount[s.AccountID], dto.SnapshotPoint{
			Date:    s.SnapshotDate,
			Balance: s.Balance,
		})
		byDate[s.SnapshotDate] = byDate[s.SnapshotDate].Add(s.Balance)
	}

	resp := dto.BalanceHistoryResponse{
		Accounts:  make([]dto.AccountHistory, 0, len(accounts)),
		StartDate: start,
		EndDate:   end,
	}

	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, dto.AccountHistory{
			AccountResponse: toAccountResponse(account),
			Series:          byAccount[account.ID],
		})
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, d := range dates {
		resp.Aggregate = append(resp.Aggregate, dto.SnapshotPoint{Date: d, Balance: byDate[d]})
	}

	return resp, nil
}
