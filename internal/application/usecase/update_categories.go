package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/port"
)

// UpdateCategoriesUseCase sets both category flags on an account.
type UpdateCategoriesUseCase struct {
	accounts port.AccountRepository
	logger   *slog.Logger
}

// NewUpdateCategoriesUseCase creates an UpdateCategoriesUseCase.
func NewUpdateCategoriesUseCase(accounts port.AccountRepository, logger *slog.Logger) *UpdateCategoriesUseCase {
	return &UpdateCategoriesUseCase{accounts: accounts, logger: logger}
}

// Execute replaces both flags atomically. Any flag combination is legal,
// including both true and both false; both false returns the account to the
// uncategorized state and drops it from cash-flow totals.
func (uc *UpdateCategoriesUseCase) Execute(ctx context.Context, accountID, userID uuid.UUID, isInflow, isOutflow bool) (dto.AccountResponse, error) {
	account, err := uc.accounts.UpdateCategoryFlags(ctx, accountID, userID, isInflow, isOutflow)
	if err != nil {
		return dto.AccountResponse{}, fmt.Errorf("update category flags: %w", err)
	}

	uc.logger.Info("account categories updated",
		"account_id", accountID,
		"is_inflow", isInflow,
		"is_outflow", isOutflow,
	)
	return toAccountResponse(account), nil
}
