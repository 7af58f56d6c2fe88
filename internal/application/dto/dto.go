// Package dto defines the request and response shapes exchanged between the
// presentation layer and the use cases.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountResponse is the external view of a linked account.
type AccountResponse struct {
	AccountID             uuid.UUID `json:"accountId"`
	AccountName           string    `json:"accountName"`
	AccountType           string    `json:"accountType"`
	InstitutionName       string    `json:"institutionName"`
	IsInflow              bool      `json:"isInflow"`
	IsOutflow             bool      `json:"isOutflow"`
	NeedsReauthentication bool      `json:"needsReauthentication"`
	CreatedAt             time.Time `json:"createdAt"`
}

// LinkTokenResponse is returned by the link-token pass-through.
type LinkTokenResponse struct {
	LinkToken  string    `json:"linkToken"`
	Expiration time.Time `json:"expiration"`
}

// ExchangeTokenRequest completes the link flow for a user.
type ExchangeTokenRequest struct {
	UserID      uuid.UUID
	PublicToken string
}

// ExchangeTokenResponse lists the account rows created by the exchange.
type ExchangeTokenResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalance pairs an account with its latest snapshot, if any.
type AccountBalance struct {
	AccountResponse
	Balance      *decimal.Decimal `json:"balance"`
	SnapshotDate *time.Time       `json:"snapshotDate"`
}

// BalancesResponse is the latest-snapshot view across a user's accounts.
type BalancesResponse struct {
	Accounts     []AccountBalance `json:"accounts"`
	TotalBalance decimal.Decimal  `json:"totalBalance"`
}

// SnapshotPoint is one dated balance in a series.
type SnapshotPoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountHistory is one account's snapshot series inside the range.
type AccountHistory struct {
	AccountResponse
	Series []SnapshotPoint `json:"series"`
}

// BalanceHistoryResponse holds per-account and aggregate series.
type BalanceHistoryResponse struct {
	Accounts  []AccountHistory `json:"accounts"`
	Aggregate []SnapshotPoint  `json:"aggregate"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
}

// MonthlyCashflowResponse holds the classified totals for the current month.
type MonthlyCashflowResponse struct {
	MonthlyInflow  decimal.Decimal `json:"monthlyInflow"`
	MonthlyOutflow decimal.Decimal `json:"monthlyOutflow"`
	PeriodStart    time.Time       `json:"periodStart"`
	PeriodEnd      time.Time       `json:"periodEnd"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	// SkippedItems counts credential groups whose provider fetch failed;
	// the totals cover whatever could be computed.
	SkippedItems int `json:"skippedItems"`
}

// AccountComparison is one account's month-over-month change.
type AccountComparison struct {
	AccountID        uuid.UUID       `json:"accountId"`
	AccountName      string          `json:"accountName"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	PreviousBalance  decimal.Decimal `json:"previousBalance"`
	Change           decimal.Decimal `json:"change"`
	PercentageChange decimal.Decimal `json:"percentageChange"`
	Trend            string          `json:"trend"`
}

// MonthlyComparisonResponse compares the current month against the previous one.
type MonthlyComparisonResponse struct {
	CurrentMonth     string              `json:"currentMonth"`
	PreviousMonth    string              `json:"previousMonth"`
	CurrentTotal     decimal.Decimal     `json:"currentTotal"`
	PreviousTotal    decimal.Decimal     `json:"previousTotal"`
	TotalChange      decimal.Decimal     `json:"totalChange"`
	PercentageChange decimal.Decimal     `json:"percentageChange"`
	Trend            string              `json:"trend"`
	Accounts         []AccountComparison `json:"accounts"`
}

// Sync group outcomes.
const (
	SyncStatusSynced        = "synced"
	SyncStatusReauthFlagged = "reauth_required"
	SyncStatusSkipped       = "skipped"
)

// SyncGroupResult is the outcome for one credential group.
type SyncGroupResult struct {
	ProviderItemID   string `json:"providerItemId"`
	Status           string `json:"status"`
	Accounts         int    `json:"accounts"`
	SnapshotsWritten int    `json:"snapshotsWritten"`
	Error            string `json:"error,omitempty"`
}

// SyncReport is the observable result of one sync pass.
type SyncReport struct {
	StartedAt        time.Time         `json:"startedAt"`
	FinishedAt       time.Time         `json:"finishedAt"`
	SnapshotDate     time.Time         `json:"snapshotDate"`
	Groups           []SyncGroupResult `json:"groups"`
	SnapshotsWritten int               `json:"snapshotsWritten"`
}
