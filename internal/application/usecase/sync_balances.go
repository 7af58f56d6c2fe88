package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/event"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/internal/domain/port"
	"github.com/cashlens/cashlens/pkg/openbanking"
)

// SyncBalancesUseCase is the periodic balance sync pass. It owns no
// scheduling; an external trigger calls Execute with the current time, which
// keeps the job testable without wall-clock dependencies.
type SyncBalancesUseCase struct {
	accounts  port.AccountRepository
	snapshots port.SnapshotRepository
	provider  port.ProviderGateway
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewSyncBalancesUseCase creates a SyncBalancesUseCase.
func NewSyncBalancesUseCase(
	accounts port.AccountRepository,
	snapshots port.SnapshotRepository,
	provider port.ProviderGateway,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *SyncBalancesUseCase {
	return &SyncBalancesUseCase{
		accounts:  accounts,
		snapshots: snapshots,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
	}
}

// credentialGroup is the set of accounts sharing one provider credential.
type credentialGroup struct {
	accessToken string
	itemID      string
	accounts    []model.Account
}

// Execute runs one sync pass over every active account.
//
// Credential groups are processed independently: one group's failure never
// aborts the rest, and partial success is the expected steady state. There is
// no retry inside a run — the next scheduled invocation is the retry
// mechanism.
func (uc *SyncBalancesUseCase) Execute(ctx context.Context, now time.Time) (dto.SyncReport, error) {
	report := dto.SyncReport{
		StartedAt:    now.UTC(),
		SnapshotDate: model.DateOnly(now),
	}

	active, err := uc.accounts.ListActive(ctx)
	if err != nil {
		return dto.SyncReport{}, err
	}

	for _, group := range groupByCredential(active) {
		result := uc.syncGroup(ctx, group, report.SnapshotDate)
		report.Groups = append(report.Groups, result)
		report.SnapshotsWritten += result.SnapshotsWritten
	}

	report.FinishedAt = time.Now().UTC()
	uc.logger.Info("balance sync pass finished",
		"groups", len(report.Groups),
		"snapshots_written", report.SnapshotsWritten,
	)
	return report, nil
}

func (uc *SyncBalancesUseCase) syncGroup(ctx context.Context, group credentialGroup, snapshotDate time.Time) dto.SyncGroupResult {
	result := dto.SyncGroupResult{
		ProviderItemID: group.itemID,
		Accounts:       len(group.accounts),
	}

	balances, err := uc.provider.FetchBalances(ctx, group.accessToken)
	if err != nil {
		if openbanking.IsReauthRequired(err) {
			// The credential is dead for the whole item. No snapshots are
			// written for this group; the flag excludes it from future
			// syncs until the user re-links.
			if _, setErr := uc.accounts.SetReauthByItem(ctx, group.itemID, true); setErr != nil {
				uc.logger.Error("failed to flag item for reauthentication",
					"item_id", group.itemID, "error", setErr)
				result.Status = dto.SyncStatusSkipped
				result.Error = setErr.Error()
				return result
			}
			uc.publishEvents(ctx, event.NewItemReauthRequired(group.itemID, len(group.accounts)))
			uc.logger.Warn("item flagged for reauthentication", "item_id", group.itemID)
			result.Status = dto.SyncStatusReauthFlagged
			result.Error = err.Error()
			return result
		}

		// Transient or unknown provider failure: log and skip, no state
		// mutation, the next run retries.
		uc.logger.Error("balance fetch failed, skipping group",
			"item_id", group.itemID, "error", err)
		result.Status = dto.SyncStatusSkipped
		result.Error = err.Error()
		return result
	}

	byProviderID := make(map[string]openbanking.BankAccount, len(balances))
	for _, b := range balances {
		byProviderID[b.AccountID] = b
	}

	for _, account := range group.accounts {
		remote, ok := byProviderID[account.ProviderAccountID]
		if !ok || remote.CurrentBalance == nil {
			uc.logger.Warn("no balance reported for account, skipping",
				"account_id", account.ID, "provider_account_id", account.ProviderAccountID)
			continue
		}

		_, err := uc.snapshots.Save(ctx, account.ID, *remote.CurrentBalance, snapshotDate)
		switch {
		case err == nil:
			result.SnapshotsWritten++
		case errors.Is(err, model.ErrDuplicateSnapshot):
			// Already recorded today, e.g. an overlapping run or a retry.
			uc.logger.Debug("snapshot already recorded for today",
				"account_id", account.ID)
		default:
			uc.logger.Error("failed to save snapshot",
				"account_id", account.ID, "error", err)
		}
	}

	// The flag is cleared only after every snapshot write for the group has
	// been attempted, so a partial failure never hides behind a healthy flag.
	if _, err := uc.accounts.SetReauthByItem(ctx, group.itemID, false); err != nil {
		uc.logger.Error("failed to clear reauthentication flag",
			"item_id", group.itemID, "error", err)
	}

	uc.publishEvents(ctx, event.NewItemSynced(group.itemID, result.SnapshotsWritten, snapshotDate))
	result.Status = dto.SyncStatusSynced
	return result
}

func (uc *SyncBalancesUseCase) publishEvents(ctx context.Context, events ...event.DomainEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, eventTopic, events...); err != nil {
		uc.logger.Error("failed to publish sync events", "error", err)
	}
}

// groupByCredential groups accounts by access token, preserving first-seen
// order. Accounts under one item always share a token.
func groupByCredential(accounts []model.Account) []credentialGroup {
	index := make(map[string]int)
	var groups []credentialGroup

	for _, a := range accounts {
		i, ok := index[a.AccessToken]
		if !ok {
			i = len(groups)
			index[a.AccessToken] = i
			groups = append(groups, credentialGroup{
				accessToken: a.AccessToken,
				itemID:      a.ProviderItemID,
			})
		}
		groups[i].accounts = append(groups[i].accounts, a)
	}
	return groups
}
