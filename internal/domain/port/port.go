// Package port defines the persistence and provider boundaries the
// application layer depends on.
package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashlens/cashlens/internal/domain/event"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/pkg/openbanking"
)

// AccountRepository is the persistence port for linked accounts.
type AccountRepository interface {
	// CreateAll persists new account rows in one transaction, so a token
	// exchange either links every returned account or none of them.
	CreateAll(ctx context.Context, accounts []model.Account) error

	// FindByID retrieves one account. Returns model.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (model.Account, error)

	// ListByUser retrieves all non-deactivated accounts owned by the user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Account, error)

	// ListActive retrieves every account eligible for syncing: active and
	// not flagged for re-authentication.
	ListActive(ctx context.Context) ([]model.Account, error)

	// UpdateCategoryFlags sets both category flags on an account owned by
	// the given user. Returns the updated account, or model.ErrNotFound when
	// the account does not exist or belongs to someone else.
	UpdateCategoryFlags(ctx context.Context, id, userID uuid.UUID, isInflow, isOutflow bool) (model.Account, error)

	// SetReauthByItem sets or clears the re-authentication flag for every
	// account sharing the provider item id, in one statement. Returns the
	// updated set.
	SetReauthByItem(ctx context.Context, providerItemID string, needsReauth bool) ([]model.Account, error)

	// Deactivate soft-deletes an account owned by the given user.
	Deactivate(ctx context.Context, id, userID uuid.UUID) error
}

// SnapshotRepository is the persistence port for balance snapshots.
type SnapshotRepository interface {
	// Save writes one snapshot. Returns model.ErrDuplicateSnapshot when a
	// row already exists for the (account, date) pair — a conflict signal,
	// never a silent upsert.
	Save(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal, date time.Time) (model.BalanceSnapshot, error)

	// Latest returns the most recent snapshot by date, or model.ErrNotFound.
	Latest(ctx context.Context, accountID uuid.UUID) (model.BalanceSnapshot, error)

	// OnDate returns the snapshot recorded exactly on the given date, or
	// model.ErrNotFound.
	OnDate(ctx context.Context, accountID uuid.UUID, date time.Time) (model.BalanceSnapshot, error)

	// FirstInMonth returns the earliest snapshot whose date falls within the
	// given calendar month, or model.ErrNotFound. This is the month-boundary
	// anchor; it may be days after the 1st when early days were missed.
	FirstInMonth(ctx context.Context, accountID uuid.UUID, year int, month time.Month) (model.BalanceSnapshot, error)

	// RangeForAccounts returns all snapshots for any of the given accounts
	// with dates in [start, end], ordered by date.
	RangeForAccounts(ctx context.Context, accountIDs []uuid.UUID, start, end time.Time) ([]model.BalanceSnapshot, error)
}

// ProviderGateway is the capability port for the aggregation provider,
// expressed in domain terms so the provider can be swapped or mocked without
// touching business logic.
type ProviderGateway interface {
	// CreateLinkToken starts the link flow for a user.
	CreateLinkToken(ctx context.Context, userID string) (openbanking.LinkTokenResponse, error)

	// ExchangePublicToken completes the link flow.
	ExchangePublicToken(ctx context.Context, publicToken string) (openbanking.ItemAccessResponse, error)

	// FetchBalances fetches current balances for every account under the
	// credential in one call.
	FetchBalances(ctx context.Context, accessToken string) ([]openbanking.BankAccount, error)

	// FetchCurrentMonthTransactions fetches every transaction from the first
	// day of now's calendar month through now, paginating transparently.
	// Provider errors propagate unchanged.
	FetchCurrentMonthTransactions(ctx context.Context, accessToken string, now time.Time) ([]model.Transaction, error)
}

// EventPublisher publishes domain events to a message broker. Publish
// failures are logged by callers and never fail the surrounding operation.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, events ...event.DomainEvent) error
}
