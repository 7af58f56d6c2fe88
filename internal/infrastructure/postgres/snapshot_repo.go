package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cashlens/cashlens/internal/domain/model"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// SnapshotRepository implements port.SnapshotRepository using PostgreSQL.
// The UNIQUE(account_id, snapshot_date) constraint is the concurrency safety
// net: overlapping sync runs race safely because the second write is
// rejected, not merged.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a PostgreSQL-backed SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Save writes one snapshot, mapping a unique violation to ErrDuplicateSnapshot.
func (r *SnapshotRepository) Save(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal, date time.Time) (model.BalanceSnapshot, error) {
	snapshot := model.BalanceSnapshot{
		ID:           uuid.New(),
		AccountID:    accountID,
		Balance:      balance,
		SnapshotDate: model.DateOnly(date),
		CreatedAt:    time.Now().UTC(),
	}

	const query = `
		INSERT INTO balance_snapshots (id, account_id, balance, snapshot_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		snapshot.ID,
		snapshot.AccountID,
		snapshot.Balance,
		snapshot.SnapshotDate,
		snapshot.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.BalanceSnapshot{}, model.ErrDuplicateSnapshot
		}
		return model.BalanceSnapshot{}, fmt.Errorf("insert snapshot for account %s: %w", accountID, err)
	}
	return snapshot, nil
}

// Latest returns the most recent snapshot by date.
func (r *SnapshotRepository) Latest(ctx context.Context, accountID uuid.UUID) (model.BalanceSnapshot, error) {
	const query = `
		SELECT id, account_id, balance, snapshot_date, created_at
		FROM balance_snapshots
		WHERE account_id = $1
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	return r.scanSnapshot(r.pool.QueryRow(ctx, query, accountID))
}

// OnDate returns the snapshot recorded exactly on the given date.
func (r *SnapshotRepository) OnDate(ctx context.Context, accountID uuid.UUID, date time.Time) (model.BalanceSnapshot, error) {
	const query = `
		SELECT id, account_id, balance, snapshot_date, created_at
		FROM balance_snapshots
		WHERE account_id = $1 AND snapshot_date = $2
	`

	return r.scanSnapshot(r.pool.QueryRow(ctx, query, accountID, model.DateOnly(date)))
}

// FirstInMonth returns the earliest snapshot with a date in
// [year-month-01, next month).
func (r *SnapshotRepository) FirstInMonth(ctx context.Context, accountID uuid.UUID, year int, month time.Month) (model.BalanceSnapshot, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	const query = `
		SELECT id, account_id, balance, snapshot_date, created_at
		FROM balance_snapshots
		WHERE account_id = $1 AND snapshot_date >= $2 AND snapshot_date < $3
		ORDER BY snapshot_date
		LIMIT 1
	`

	return r.scanSnapshot(r.pool.QueryRow(ctx, query, accountID, monthStart, nextMonth))
}

// RangeForAccounts returns all snapshots for any of the given accounts with
// dates in [start, end], ordered by date.
func (r *SnapshotRepository) RangeForAccounts(ctx context.Context, accountIDs []uuid.UUID, start, end time.Time) ([]model.BalanceSnapshot, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, account_id, balance, snapshot_date, created_at
		FROM balance_snapshots
		WHERE account_id = ANY($1) AND snapshot_date >= $2 AND snapshot_date <= $3
		ORDER BY snapshot_date, account_id
	`

	rows, err := r.pool.Query(ctx, query, accountIDs, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("query snapshot range: %w", err)
	}
	defer rows.Close()

	var snapshots []model.BalanceSnapshot
	for rows.Next() {
		var s model.BalanceSnapshot
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Balance, &s.SnapshotDate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snapshots, nil
}

func (r *SnapshotRepository) scanSnapshot(row pgx.Row) (model.BalanceSnapshot, error) {
	var s model.BalanceSnapshot
	err := row.Scan(&s.ID, &s.AccountID, &s.Balance, &s.SnapshotDate, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BalanceSnapshot{}, model.ErrNotFound
		}
		return model.BalanceSnapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	return s, nil
}
