package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/internal/domain/port"
	"github.com/cashlens/cashlens/pkg/money"
)

const monthLayout = "2006-01"

// MonthlyComparisonUseCase compares total balances between a reference month
// and the month before it.
type MonthlyComparisonUseCase struct {
	accounts  port.AccountRepository
	snapshots port.SnapshotRepository
	logger    *slog.Logger
}

// NewMonthlyComparisonUseCase creates a MonthlyComparisonUseCase.
func NewMonthlyComparisonUseCase(accounts port.AccountRepository, snapshots port.SnapshotRepository, logger *slog.Logger) *MonthlyComparisonUseCase {
	return &MonthlyComparisonUseCase{accounts: accounts, snapshots: snapshots, logger: logger}
}

// Execute anchors each month on the account's earliest snapshot within that
// month, which may be days after the 1st when early days were missed. Only
// categorized accounts participate. An account with no snapshot in a month
// contributes zero for that month rather than excluding the account.
func (uc *MonthlyComparisonUseCase) Execute(ctx context.Context, userID uuid.UUID, reference time.Time) (dto.MonthlyComparisonResponse, error) {
	reference = reference.UTC()
	curYear, curMonth := reference.Year(), reference.Month()
	prevYear, prevMonth := model.PreviousMonth(curYear, curMonth)

	resp := dto.MonthlyComparisonResponse{
		CurrentMonth:     time.Date(curYear, curMonth, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout),
		PreviousMonth:    time.Date(prevYear, prevMonth, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout),
		CurrentTotal:     decimal.Zero,
		PreviousTotal:    decimal.Zero,
		TotalChange:      decimal.Zero,
		PercentageChange: decimal.Zero,
		Trend:            money.TrendNoChange,
		Accounts:         []dto.AccountComparison{},
	}

	accounts, err := uc.accounts.ListByUser(ctx, userID)
	if err != nil {
		return dto.MonthlyComparisonResponse{}, fmt.Errorf("list accounts: %w", err)
	}

	for _, account := range accounts {
		if !account.Categorized() {
			continue
		}

		current, err := uc.monthAnchor(ctx, account.ID, curYear, curMonth)
		if err != nil {
			return dto.MonthlyComparisonResponse{}, fmt.Errorf("anchor for account %s: %w", account.ID, err)
		}
		previous, err := uc.monthAnchor(ctx, account.ID, prevYear, prevMonth)
		if err != nil {
			return dto.MonthlyComparisonResponse{}, fmt.Errorf("anchor for account %s: %w", account.ID, err)
		}

		change := current.Sub(previous)
		resp.Accounts = append(resp.Accounts, dto.AccountComparison{
			AccountID:        account.ID,
			AccountName:      account.Name,
			CurrentBalance:   current,
			PreviousBalance:  previous,
			Change:           change,
			PercentageChange: money.ChangePercent(current, previous),
			Trend:            money.TrendOf(change),
		})

		resp.CurrentTotal = resp.CurrentTotal.Add(current)
		resp.PreviousTotal = resp.PreviousTotal.Add(previous)
	}

	resp.TotalChange = resp.CurrentTotal.Sub(resp.PreviousTotal)
	resp.PercentageChange = money.ChangePercent(resp.CurrentTotal, resp.PreviousTotal)
	resp.Trend = money.TrendOf(resp.TotalChange)
	return resp, nil
}

// monthAnchor returns the earliest snapshot balance inside the month, or zero
// when the account has none for that month.
func (uc *MonthlyComparisonUseCase) monthAnchor(ctx context.Context, accountID uuid.UUID, year int, month time.Month) (decimal.Decimal, error) {
	snapshot, err := uc.snapshots.FirstInMonth(ctx, accountID, year, month)
	switch {
	case err == nil:
		return snapshot.Balance, nil
	case errors.Is(err, model.ErrNotFound):
		return decimal.Zero, nil
	default:
		return decimal.Decimal{}, err
	}
}
