package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/internal/domain/port"
	"github.com/cashlens/cashlens/internal/domain/service"
)

// MonthlyCashflowUseCase computes current-month inflow and outflow totals by
// fetching the month's transactions live from the provider and running them
// through the classifier.
type MonthlyCashflowUseCase struct {
	accounts port.AccountRepository
	provider port.ProviderGateway
	logger   *slog.Logger
}

// NewMonthlyCashflowUseCase creates a MonthlyCashflowUseCase.
func NewMonthlyCashflowUseCase(accounts port.AccountRepository, provider port.ProviderGateway, logger *slog.Logger) *MonthlyCashflowUseCase {
	return &MonthlyCashflowUseCase{accounts: accounts, provider: provider, logger: logger}
}

// Execute fetches every transaction from the 1st of now's month through now
// and classifies it against the user's category flags.
//
// Transactions are always refetched from the month's start rather than from a
// cursor, so flag changes made mid-month retroactively reclassify the whole
// month on the next call.
//
// Each provider credential is fetched once, even when several categorized
// accounts share it. A failed fetch skips that credential's transactions and
// increments SkippedItems; the totals still cover every credential that
// answered.
func (uc *MonthlyCashflowUseCase) Execute(ctx context.Context, userID uuid.UUID, now time.Time) (dto.MonthlyCashflowResponse, error) {
	accounts, err := uc.accounts.ListByUser(ctx, userID)
	if err != nil {
		return dto.MonthlyCashflowResponse{}, fmt.Errorf("list accounts: %w", err)
	}

	flags := make(map[string]service.CategoryFlags)
	tokens := make(map[string]struct{})
	var order []string
	for _, a := range accounts {
		if !a.Syncable() || !a.Categorized() {
			continue
		}
		flags[a.ProviderAccountID] = service.CategoryFlags{
			Inflow:  a.IsInflow,
			Outflow: a.IsOutflow,
		}
		if _, seen := tokens[a.AccessToken]; !seen {
			tokens[a.AccessToken] = struct{}{}
			order = append(order, a.AccessToken)
		}
	}

	resp := dto.MonthlyCashflowResponse{
		PeriodStart: model.FirstOfMonth(now),
		PeriodEnd:   model.DateOnly(now),
		LastUpdated: now.UTC(),
	}

	var txns []model.Transaction
	for _, token := range order {
		fetched, err := uc.provider.FetchCurrentMonthTransactions(ctx, token, now)
		if err != nil {
			uc.logger.Error("transaction fetch failed, skipping credential", "error", err)
			resp.SkippedItems++
			continue
		}
		txns = append(txns, fetched...)
	}

	totals := service.ClassifyCashflow(txns, flags)
	resp.MonthlyInflow = totals.TotalInflow
	resp.MonthlyOutflow = totals.TotalOutflow
	return resp, nil
}
