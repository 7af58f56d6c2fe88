// Package event defines the domain events emitted by the link flow and the
// balance sync job.
package event

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

type baseEvent struct {
	ID          uuid.UUID `json:"event_id"`
	Type        string    `json:"event_type"`
	Aggregate   string    `json:"aggregate_id"`
	OccurredUTC time.Time `json:"occurred_at"`
}

func newBaseEvent(eventType, aggregateID string) baseEvent {
	return baseEvent{
		ID:          uuid.New(),
		Type:        eventType,
		Aggregate:   aggregateID,
		OccurredUTC: time.Now().UTC(),
	}
}

func (e baseEvent) EventID() uuid.UUID    { return e.ID }
func (e baseEvent) EventType() string     { return e.Type }
func (e baseEvent) AggregateID() string   { return e.Aggregate }
func (e baseEvent) OccurredAt() time.Time { return e.OccurredUTC }

// AccountLinked is emitted once per account row created by a token exchange.
type AccountLinked struct {
	baseEvent
	AccountID         uuid.UUID `json:"account_id"`
	UserID            uuid.UUID `json:"user_id"`
	ProviderItemID    string    `json:"provider_item_id"`
	ProviderAccountID string    `json:"provider_account_id"`
	InstitutionName   string    `json:"institution_name"`
}

// NewAccountLinked creates an AccountLinked event.
func NewAccountLinked(accountID, userID uuid.UUID, itemID, providerAccountID, institution string) AccountLinked {
	return AccountLinked{
		baseEvent:         newBaseEvent("account.linked", accountID.String()),
		AccountID:         accountID,
		UserID:            userID,
		ProviderItemID:    itemID,
		ProviderAccountID: providerAccountID,
		InstitutionName:   institution,
	}
}

// ItemReauthRequired is emitted when the sync job flags every account under
// an item as needing re-authentication.
type ItemReauthRequired struct {
	baseEvent
	ProviderItemID string `json:"provider_item_id"`
	AccountCount   int    `json:"account_count"`
}

// NewItemReauthRequired creates an ItemReauthRequired event.
func NewItemReauthRequired(itemID string, accountCount int) ItemReauthRequired {
	return ItemReauthRequired{
		baseEvent:      newBaseEvent("item.reauth_required", itemID),
		ProviderItemID: itemID,
		AccountCount:   accountCount,
	}
}

// ItemSynced is emitted after a credential group completes a sync cycle.
type ItemSynced struct {
	baseEvent
	ProviderItemID   string    `json:"provider_item_id"`
	SnapshotsWritten int       `json:"snapshots_written"`
	SnapshotDate     time.Time `json:"snapshot_date"`
}

// NewItemSynced creates an ItemSynced event.
func NewItemSynced(itemID string, snapshotsWritten int, snapshotDate time.Time) ItemSynced {
	return ItemSynced{
		baseEvent:        newBaseEvent("item.synced", itemID),
		ProviderItemID:   itemID,
		SnapshotsWritten: snapshotsWritten,
		SnapshotDate:     snapshotDate,
	}
}
