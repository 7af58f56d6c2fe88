package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/event"
	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/internal/domain/port"
)

// LinkAccountUseCase handles the provider link flow: creating link tokens and
// exchanging public tokens into persisted account rows.
type LinkAccountUseCase struct {
	accounts  port.AccountRepository
	provider  port.ProviderGateway
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewLinkAccountUseCase creates a LinkAccountUseCase.
func NewLinkAccountUseCase(
	accounts port.AccountRepository,
	provider port.ProviderGateway,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *LinkAccountUseCase {
	return &LinkAccountUseCase{
		accounts:  accounts,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateLinkToken starts the link flow for a user. Pure pass-through to the
// provider.
func (uc *LinkAccountUseCase) CreateLinkToken(ctx context.Context, userID uuid.UUID) (dto.LinkTokenResponse, error) {
	resp, err := uc.provider.CreateLinkToken(ctx, userID.String())
	if err != nil {
		return dto.LinkTokenResponse{}, fmt.Errorf("create link token: %w", err)
	}
	return dto.LinkTokenResponse{
		LinkToken:  resp.LinkToken,
		Expiration: resp.Expiration,
	}, nil
}

// ExchangeToken completes the link flow: exchanges the public token and
// creates one account row per account returned by the provider. New accounts
// start uncategorized, with both category flags false.
func (uc *LinkAccountUseCase) ExchangeToken(ctx context.Context, req dto.ExchangeTokenRequest) (dto.ExchangeTokenResponse, error) {
	item, err := uc.provider.ExchangePublicToken(ctx, req.PublicToken)
	if err != nil {
		return dto.ExchangeTokenResponse{}, fmt.Errorf("exchange public token: %w", err)
	}

	now := time.Now().UTC()
	resp := dto.ExchangeTokenResponse{}
	var accounts []model.Account
	var events []event.DomainEvent

	for _, remote := range item.Accounts {
		account := model.Account{
			ID:                uuid.New(),
			UserID:            req.UserID,
			ProviderItemID:    item.ItemID,
			ProviderAccountID: remote.AccountID,
			AccessToken:       item.AccessToken,
			Name:              remote.Name,
			Type:              remote.Type,
			InstitutionName:   remote.InstitutionName,
			Active:            true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		accounts = append(accounts, account)
		resp.Accounts = append(resp.Accounts, toAccountResponse(account))
		events = append(events, event.NewAccountLinked(
			account.ID, account.UserID, account.ProviderItemID,
			account.ProviderAccountID, account.InstitutionName,
		))
	}

	if err := uc.accounts.CreateAll(ctx, accounts); err != nil {
		return dto.ExchangeTokenResponse{}, fmt.Errorf("create accounts for item %s: %w", item.ItemID, err)
	}

	if uc.publisher != nil && len(events) > 0 {
		if err := uc.publisher.Publish(ctx, eventTopic, events...); err != nil {
			uc.logger.Error("failed to publish link events", "error", err)
		}
	}

	uc.logger.Info("item linked",
		"user_id", req.UserID,
		"item_id", item.ItemID,
		"accounts", len(resp.Accounts),
	)
	return resp, nil
}
