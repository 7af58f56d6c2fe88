// Package postgres implements the persistence ports on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashlens/cashlens/internal/domain/model"
	pgpkg "github.com/cashlens/cashlens/pkg/postgres"
)

const accountColumns = `
	id, user_id, provider_item_id, provider_access_token, provider_account_id,
	account_name, account_type, institution_name,
	is_inflow, is_outflow, needs_reauthentication, active,
	created_at, updated_at`

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a PostgreSQL-backed AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// CreateAll persists new account rows in one transaction.
func (r *AccountRepository) CreateAll(ctx context.Context, accounts []model.Account) error {
	const query = `
		INSERT INTO accounts (
			id, user_id, provider_item_id, provider_access_token, provider_account_id,
			account_name, account_type, institution_name,
			is_inflow, is_outflow, needs_reauthentication, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, account := range accounts {
			_, err := tx.Exec(ctx, query,
				account.ID,
				account.UserID,
				account.ProviderItemID,
				account.AccessToken,
				account.ProviderAccountID,
				account.Name,
				account.Type,
				account.InstitutionName,
				account.IsInflow,
				account.IsOutflow,
				account.NeedsReauth,
				account.Active,
				account.CreatedAt,
				account.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert account %s: %w", account.ID, err)
			}
		}
		return nil
	})
}

// FindByID retrieves one account by id.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("find account %s: %w", id, err)
	}
	return account, nil
}

// ListByUser retrieves all non-deactivated accounts owned by the user.
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Account, error) {
	query := `SELECT` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND active
		ORDER BY created_at`

	return r.queryAccounts(ctx, query, userID)
}

// ListActive retrieves every account eligible for syncing.
func (r *AccountRepository) ListActive(ctx context.Context) ([]model.Account, error) {
	query := `SELECT` + accountColumns + `
		FROM accounts
		WHERE active AND NOT needs_reauthentication
		ORDER BY provider_item_id, created_at`

	return r.queryAccounts(ctx, query)
}

// UpdateCategoryFlags sets both category flags on an account owned by the user.
func (r *AccountRepository) UpdateCategoryFlags(ctx context.Context, id, userID uuid.UUID, isInflow, isOutflow bool) (model.Account, error) {
	query := `
		UPDATE accounts
		SET is_inflow = $3, is_outflow = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND active
		RETURNING` + accountColumns

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id, userID, isInflow, isOutflow))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("update category flags for account %s: %w", id, err)
	}
	return account, nil
}

// SetReauthByItem sets or clears the re-authentication flag for every account
// sharing the provider item id and returns the updated set. The credential is
// shared per item, so the flag always moves together.
func (r *AccountRepository) SetReauthByItem(ctx context.Context, providerItemID string, needsReauth bool) ([]model.Account, error) {
	query := `
		UPDATE accounts
		SET needs_reauthentication = $2, updated_at = NOW()
		WHERE provider_item_id = $1
		RETURNING` + accountColumns

	accounts, err := r.queryAccounts(ctx, query, providerItemID, needsReauth)
	if err != nil {
		return nil, fmt.Errorf("set reauth for item %s: %w", providerItemID, err)
	}
	return accounts, nil
}

// Deactivate soft-deletes an account owned by the user.
func (r *AccountRepository) Deactivate(ctx context.Context, id, userID uuid.UUID) error {
	const query = `
		UPDATE accounts
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND active
	`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate account %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID, &a.UserID, &a.ProviderItemID, &a.AccessToken, &a.ProviderAccountID,
		&a.Name, &a.Type, &a.InstitutionName,
		&a.IsInflow, &a.IsOutflow, &a.NeedsReauth, &a.Active,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	return a, nil
}
