// Package model holds the domain entities for linked accounts and balance
// snapshots.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a linked external account. One provider item (a single
// credential) can yield multiple accounts; all accounts under an item share
// the item's access token, so credential health is tracked per item.
type Account struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	ProviderItemID    string
	ProviderAccountID string
	// AccessToken is the opaque provider credential, shared by every account
	// under the same item.
	AccessToken     string
	Name            string
	Type            string
	InstitutionName string

	// IsInflow and IsOutflow are independent user-assigned category flags.
	// Both false means the account is uncategorized and excluded from all
	// cash-flow and comparison totals.
	IsInflow  bool
	IsOutflow bool

	// NeedsReauth is set when the provider reports the item credential is no
	// longer valid. While set, the account is excluded from sync and from
	// active-account queries. Cleared by the next successful sync.
	NeedsReauth bool

	// Active is the soft-deactivation flag; accounts are never hard-deleted.
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Categorized reports whether the account participates in cash-flow and
// comparison totals.
func (a Account) Categorized() bool {
	return a.IsInflow || a.IsOutflow
}

// Syncable reports whether the sync job should fetch balances for this account.
func (a Account) Syncable() bool {
	return a.Active && !a.NeedsReauth
}
