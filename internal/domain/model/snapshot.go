package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceSnapshot is an immutable recorded balance for one account on one
// calendar date. The (AccountID, SnapshotDate) pair is unique; a second write
// for the same pair fails with ErrDuplicateSnapshot.
type BalanceSnapshot struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Balance      decimal.Decimal
	SnapshotDate time.Time
	CreatedAt    time.Time
}

// DateOnly truncates t to a UTC calendar date. All snapshot dates pass
// through here so that comparisons never depend on the time of day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FirstOfMonth returns midnight UTC on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PreviousMonth returns the (year, month) immediately before the given one,
// rolling the year back at January.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
