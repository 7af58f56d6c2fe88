package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashlens/cashlens/internal/domain/event"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/pkg/openbanking"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockAccountRepo struct {
	createAllFn           func(ctx context.Context, accounts []model.Account) error
	findByIDFn            func(ctx context.Context, id uuid.UUID) (model.Account, error)
	listByUserFn          func(ctx context.Context, userID uuid.UUID) ([]model.Account, error)
	listActiveFn          func(ctx context.Context) ([]model.Account, error)
	updateCategoryFlagsFn func(ctx context.Context, id, userID uuid.UUID, isInflow, isOutflow bool) (model.Account, error)
	setReauthByItemFn     func(ctx context.Context, providerItemID string, needsReauth bool) ([]model.Account, error)
	deactivateFn          func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockAccountRepo) CreateAll(ctx context.Context, accounts []model.Account) error {
	return m.createAllFn(ctx, accounts)
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockAccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Account, error) {
	return m.listByUserFn(ctx, userID)
}

func (m *mockAccountRepo) ListActive(ctx context.Context) ([]model.Account, error) {
	return m.listActiveFn(ctx)
}

func (m *mockAccountRepo) UpdateCategoryFlags(ctx context.Context, id, userID uuid.UUID, isInflow, isOutflow bool) (model.Account, error) {
	return m.updateCategoryFlagsFn(ctx, id, userID, isInflow, isOutflow)
}

func (m *mockAccountRepo) SetReauthByItem(ctx context.Context, providerItemID string, needsReauth bool) ([]model.Account, error) {
	return m.setReauthByItemFn(ctx, providerItemID, needsReauth)
}

func (m *mockAccountRepo) Deactivate(ctx context.Context, id, userID uuid.UUID) error {
	return m.deactivateFn(ctx, id, userID)
}

type mockSnapshotRepo struct {
	saveFn             func(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal, date time.Time) (model.BalanceSnapshot, error)
	latestFn           func(ctx context.Context, accountID uuid.UUID) (model.BalanceSnapshot, error)
	onDateFn           func(ctx context.Context, accountID uuid.UUID, date time.Time) (model.BalanceSnapshot, error)
	firstInMonthFn     func(ctx context.Context, accountID uuid.UUID, year int, month time.Month) (model.BalanceSnapshot, error)
	rangeForAccountsFn func(ctx context.Context, accountIDs []uuid.UUID, start, end time.Time) ([]model.BalanceSnapshot, error)
}

func (m *mockSnapshotRepo) Save(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal, date time.Time) (model.BalanceSnapshot, error) {
	return m.saveFn(ctx, accountID, balance, date)
}

func (m *mockSnapshotRepo) Latest(ctx context.Context, accountID uuid.UUID) (model.BalanceSnapshot, error) {
	return m.latestFn(ctx, accountID)
}

func (m *mockSnapshotRepo) OnDate(ctx context.Context, accountID uuid.UUID, date time.Time) (model.BalanceSnapshot, error) {
	return m.onDateFn(ctx, accountID, date)
}

func (m *mockSnapshotRepo) FirstInMonth(ctx context.Context, accountID uuid.UUID, year int, month time.Month) (model.BalanceSnapshot, error) {
	return m.firstInMonthFn(ctx, accountID, year, month)
}

func (m *mockSnapshotRepo) RangeForAccounts(ctx context.Context, accountIDs []uuid.UUID, start, end time.Time) ([]model.BalanceSnapshot, error) {
	return m.rangeForAccountsFn(ctx, accountIDs, start, end)
}

type mockProvider struct {
	createLinkTokenFn     func(ctx context.Context, userID string) (openbanking.LinkTokenResponse, error)
	exchangePublicTokenFn func(ctx context.Context, publicToken string) (openbanking.ItemAccessResponse, error)
	fetchBalancesFn       func(ctx context.Context, accessToken string) ([]openbanking.BankAccount, error)
	fetchTransactionsFn   func(ctx context.Context, accessToken string, now time.Time) ([]model.Transaction, error)
}

func (m *mockProvider) CreateLinkToken(ctx context.Context, userID string) (openbanking.LinkTokenResponse, error) {
	return m.createLinkTokenFn(ctx, userID)
}

func (m *mockProvider) ExchangePublicToken(ctx context.Context, publicToken string) (openbanking.ItemAccessResponse, error) {
	return m.exchangePublicTokenFn(ctx, publicToken)
}

func (m *mockProvider) FetchBalances(ctx context.Context, accessToken string) ([]openbanking.BankAccount, error) {
	return m.fetchBalancesFn(ctx, accessToken)
}

func (m *mockProvider) FetchCurrentMonthTransactions(ctx context.Context, accessToken string, now time.Time) ([]model.Transaction, error) {
	return m.fetchTransactionsFn(ctx, accessToken, now)
}

type mockPublisher struct {
	published []event.DomainEvent
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, _ string, events ...event.DomainEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, events...)
	return nil
}
