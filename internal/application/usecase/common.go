// Package usecase contains the application services; each use case is
// constructed once with its collaborators and carries no global state.
package usecase

import (
	"github.com/cashlens/cashlens/internal/application/dto"
	"github.com/cashlens/cashlens/internal/domain/model"
)

// eventTopic is the Kafka topic all domain events are published to.
const eventTopic = "cashlens-events"

func toAccountResponse(a model.Account) dto.AccountResponse {
	return dto.AccountResponse{
		AccountID:             a.ID,
		AccountName:           a.Name,
		AccountType:           a.Type,
		InstitutionName:       a.InstitutionName,
		IsInflow:              a.IsInflow,
		IsOutflow:             a.IsOutflow,
		NeedsReauthentication: a.NeedsReauth,
		CreatedAt:             a.CreatedAt,
	}
}
