package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractRepo "servimarket/database/repository/contract"
	"servimarket/models"
	"servimarket/services/notification"
	"servimarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// updateAttempts bounds the optimistic-versioning retry loop on contract
// mutations.
const updateAttempts = 3

// CreateContract opens a new proposal by a client against an active service.
func (s *DefaultContractService) CreateContract(actor *models.User, roles models.RoleSet, req CreateRequest) (*models.Contract, error) {
	logger := utils.GetLogger()

	if !roles.Client {
		return nil, utils.NewForbiddenError("only clients may create contracts")
	}

	svc, err := s.ServiceRepo.GetByID(req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, utils.NewNotFoundError("service %s not found", req.ServiceID)
	}
	if svc.Status != models.ServiceStatusActive {
		return nil, utils.NewValidationError("service is not active")
	}
	if svc.UserID == actor.ID {
		return nil, utils.NewForbiddenError("you cannot contract your own service")
	}

	if len(req.Title) < 5 || len(req.Title) > 100 {
		return nil, utils.NewValidationError("title must be between 5 and 100 characters")
	}
	if len(req.Description) < 10 || len(req.Description) > 1000 {
		return nil, utils.NewValidationError("description must be between 10 and 1000 characters")
	}
	if len(req.Location) > 200 {
		return nil, utils.NewValidationError("location cannot exceed 200 characters")
	}

	price := svc.Price
	if req.ProposedPrice != nil {
		if *req.ProposedPrice < 0 {
			return nil, utils.NewValidationError("proposed_price cannot be negative")
		}
		price = *req.ProposedPrice
	}

	c := &models.Contract{
		ID:                uuid.NewString(),
		ServiceID:         svc.ID,
		ClientID:          actor.ID,
		ProviderID:        svc.UserID,
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		ProposedPrice:     round2(price),
		EstimatedDuration: req.EstimatedDuration,
		ClientNotes:       req.ClientNotes,
		Status:            models.ContractStatusPendingAcceptance,
	}
	if err := s.Repo.Create(c); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	s.Notifier.Emit(context.Background(), notification.Event{
		UserID:    c.ProviderID,
		Title:     "New contract proposal",
		Message:   fmt.Sprintf("You received a contract proposal for %q.", svc.Title),
		Type:      models.NotificationContractProposal,
		RelatedID: c.ID,
	})

	logger.Info("Contract created",
		zap.String("contractID", c.ID),
		zap.String("clientID", c.ClientID),
		zap.String("providerID", c.ProviderID))
	return c, nil
}

// GetContracts lists contracts visible to the actor. Admins see all;
// participants see the contracts they are a party to.
func (s *DefaultContractService) GetContracts(actor *models.User, roles models.RoleSet, query ListQuery) ([]models.Contract, error) {
	filter := models.ContractFilter{Status: query.Status}
	if !roles.Admin {
		switch query.Role {
		case "client":
			filter.ClientID = actor.ID
		case "provider":
			filter.ProviderID = actor.ID
		default:
			filter.ParticipantID = actor.ID
		}
	}
	return s.Repo.List(filter)
}

// GetContractByID retrieves one contract for a participant or an admin.
func (s *DefaultContractService) GetContractByID(actor *models.User, roles models.RoleSet, id string) (*models.Contract, error) {
	c, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, utils.NewNotFoundError("contract %s not found", id)
	}
	if _, err := resolveActor(c, actor, roles); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus runs one transition through the engine. The full
// read-validate-apply loop is retried on a version conflict so concurrent
// transitions on the same contract are serialized rather than lost.
func (s *DefaultContractService) UpdateStatus(actor *models.User, roles models.RoleSet, id string, req StatusUpdateRequest) (*models.Contract, error) {
	logger := utils.GetLogger()

	for attempt := 0; attempt < updateAttempts; attempt++ {
		c, err := s.Repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, utils.NewNotFoundError("contract %s not found", id)
		}

		role, err := resolveActor(c, actor, roles)
		if err != nil {
			return nil, err
		}

		notices, err := applyTransition(c, role, req, time.Now())
		if err != nil {
			return nil, err
		}

		err = s.Repo.ReplaceVersioned(c)
		if errors.Is(err, contractRepo.ErrVersionConflict) {
			logger.Debug("Contract version conflict, retrying",
				zap.String("contractID", id), zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.emitNotices(c, notices)
		logger.Info("Contract status updated",
			zap.String("contractID", c.ID),
			zap.String("status", c.Status))
		return c, nil
	}
	return nil, utils.NewConflictError("contract %s was modified concurrently, please retry", id)
}

// NegotiatePrice exchanges a price counter-offer while the contract is still
// in negotiation. Providers counter into pending_client_agreement, clients
// counter back into pending_acceptance, admins overwrite the agreed price
// with no status change.
func (s *DefaultContractService) NegotiatePrice(actor *models.User, roles models.RoleSet, id string, req NegotiateRequest) (*models.Contract, error) {
	if req.NewPrice == nil {
		return nil, utils.NewValidationError("new_price is required")
	}
	if *req.NewPrice < 0 {
		return nil, utils.NewValidationError("new_price cannot be negative")
	}
	price := round2(*req.NewPrice)

	for attempt := 0; attempt < updateAttempts; attempt++ {
		c, err := s.Repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, utils.NewNotFoundError("contract %s not found", id)
		}

		role, err := resolveActor(c, actor, roles)
		if err != nil {
			return nil, err
		}

		var notices []notice
		switch role {
		case roleAdmin:
			c.AgreedPrice = &price
			msg := fmt.Sprintf("An administrator set the agreed price to %.2f.", price)
			notices = []notice{
				clientNotice(c, models.NotificationContractNegotiation, "Price updated", msg),
				providerNotice(c, models.NotificationContractNegotiation, "Price updated", msg),
			}
		case roleProvider, roleClient:
			if c.Status != models.ContractStatusPendingAcceptance && c.Status != models.ContractStatusPendingClientAgreement {
				return nil, utils.NewValidationError("price can only be negotiated while the contract is pending, current status is %q", c.Status)
			}
			if role == roleProvider {
				c.AgreedPrice = &price
				c.Status = models.ContractStatusPendingClientAgreement
				notices = []notice{clientNotice(c, models.NotificationContractNegotiation,
					"Counter-offer received", fmt.Sprintf("The provider proposed a new price of %.2f.", price))}
			} else {
				c.ProposedPrice = price
				c.Status = models.ContractStatusPendingAcceptance
				notices = []notice{providerNotice(c, models.NotificationContractNegotiation,
					"Counter-offer received", fmt.Sprintf("The client proposed a new price of %.2f.", price))}
			}
		}

		err = s.Repo.ReplaceVersioned(c)
		if errors.Is(err, contractRepo.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.emitNotices(c, notices)
		return c, nil
	}
	return nil, utils.NewConflictError("contract %s was modified concurrently, please retry", id)
}

// DeleteContract removes a contract record entirely. Admin only; both
// parties are notified before the record disappears.
func (s *DefaultContractService) DeleteContract(actor *models.User, roles models.RoleSet, id string) error {
	if !roles.Admin {
		return utils.NewForbiddenError("only admins may delete contracts")
	}

	c, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return utils.NewNotFoundError("contract %s not found", id)
	}

	msg := fmt.Sprintf("The contract %q was removed by an administrator.", c.Title)
	s.emitNotices(c, []notice{
		clientNotice(c, models.NotificationContractUpdate, "Contract removed", msg),
		providerNotice(c, models.NotificationContractUpdate, "Contract removed", msg),
	})

	return s.Repo.Delete(id)
}

func (s *DefaultContractService) emitNotices(c *models.Contract, notices []notice) {
	for _, n := range notices {
		s.Notifier.Emit(context.Background(), notification.Event{
			UserID:    n.recipientID,
			Title:     n.title,
			Message:   n.message,
			Type:      n.eventType,
			RelatedID: c.ID,
		})
	}
}
