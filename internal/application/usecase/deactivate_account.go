package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cashlens/cashlens/internal/domain/port"
)

// DeactivateAccountUseCase soft-deletes an account. Snapshots are retained so
// history endpoints stay consistent for past ranges.
type DeactivateAccountUseCase struct {
	accounts port.AccountRepository
	logger   *slog.Logger
}

// NewDeactivateAccountUseCase creates a DeactivateAccountUseCase.
func NewDeactivateAccountUseCase(accounts port.AccountRepository, logger *slog.Logger) *DeactivateAccountUseCase {
	return &DeactivateAccountUseCase{accounts: accounts, logger: logger}
}

// Execute marks the account inactive. Returns model.ErrNotFound when the
// account does not exist or is owned by another user.
func (uc *DeactivateAccountUseCase) Execute(ctx context.Context, accountID, userID uuid.UUID) error {
	if err := uc.accounts.Deactivate(ctx, accountID, userID); err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	uc.logger.Info("account deactivated", "account_id", accountID, "user_id", userID)
	return nil
}
