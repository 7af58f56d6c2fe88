package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlens/cashlens/internal/domain/model"
)

func TestBalanceHistory_AggregatePerDate(t *testing.T) {
	userID := uuid.New()
	a1 := model.Account{ID: uuid.New(), UserID: userID, Name: "Checking", Active: true}
	a2 := model.Account{ID: uuid.New(), UserID: userID, Name: "Savings", Active: true}

	day1 := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	accounts := &mockAccountRepo{
		listByUserFn: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
			return []model.Account{a1, a2}, nil
		},
	}
	snapshots := &mockSnapshotRepo{
		rangeForAccountsFn: func(ctx context.Context, ids []uuid.UUID, start, end time.Time) ([]model.BalanceSnapshot, error) {
			assert.ElementsMatch(t, []uuid.UUID{a1.ID, a2.ID}, ids)
			// Account 2 missed day2: that day's aggregate covers account 1 only.
			return []model.BalanceSnapshot{
				snapshotWith(a1.ID, "100", day1),
				snapshotWith(a2.ID, "50", day1),
				snapshotWith(a1.ID, "110", day2),
				snapshotWith(a1.ID, "120", day3),
				snapshotWith(a2.ID, "60", day3),
			}, nil
		},
	}

	uc := NewBalanceHistoryUseCase(accounts, snapshots, testLogger())
	resp, err := uc.Execute(context.Background(), userID, day1, day3)
	require.NoError(t, err)

	require.Len(t, resp.Accounts, 2)
	assert.Len(t, resp.Accounts[0].Series, 3)
	assert.Len(t, resp.Accounts[1].Series, 2)

	require.Len(t, resp.Aggregate, 3)
	assert.Equal(t, day1, resp.Aggregate[0].Date)
	assert.True(t, resp.Aggregate[0].Balance.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, day2, resp.Aggregate[1].Date)
	assert.True(t, resp.Aggregate[1].Balance.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, day3, resp.Aggregate[2].Date)
	assert.True(t, resp.Aggregate[2].Balance.Equal(decimal.NewFromInt(180)))
}

func TestBalanceHistory_EmptyRange(t *testing.T) {
	userID := uuid.New()
	account := model.Account{ID: uuid.New(), UserID: userID, Name: "Checking", Active: true}

	accounts := &mockAccountRepo{
		listByUserFn: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
			return []model.Account{account}, nil
		},
	}
	snapshots := &mockSnapshotRepo{
		rangeForAccountsFn: func(ctx context.Context, ids []uuid.UUID, start, end time.Time) ([]model.BalanceSnapshot, error) {
			return nil, nil
		},
	}

	uc := NewBalanceHistoryUseCase(accounts, snapshots, testLogger())
	resp, err := uc.Execute(context.Background(), userID,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, resp.Accounts, 1)
	assert.Empty(t, resp.Accounts[0].Series)
	assert.Empty(t, resp.Aggregate)
}

func TestBalanceHistory_TruncatesRangeToDates(t *testing.T) {
	userID := uuid.New()
	accounts := &mockAccountRepo{
		listByUserFn: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
			return nil, nil
		},
	}
	snapshots := &mockSnapshotRepo{
		rangeForAccountsFn: func(ctx context.Context, ids []uuid.UUID, start, end time.Time) ([]model.BalanceSnapshot, error) {
			assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), end)
			return nil, nil
		},
	}

	uc := NewBalanceHistoryUseCase(accounts, snapshots, testLogger())
	_, err := uc.Execute(context.Background(), userID,
		time.Date(2025, time.March, 1, 14, 5, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
}
