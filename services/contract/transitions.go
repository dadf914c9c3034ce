package contract

import (
	"math"
	"time"

	"servimarket/models"
	"servimarket/utils"
)

// actorRole is the capacity in which a user acts on one specific contract,
// resolved by ID match against the contract's parties.
type actorRole int

const (
	roleNone actorRole = iota
	roleClient
	roleProvider
	roleAdmin
)

// resolveActor determines which side of the contract the actor is on. Admins
// act as admin even when they are also a party.
func resolveActor(c *models.Contract, actor *models.User, roles models.RoleSet) (actorRole, error) {
	if roles.Admin {
		return roleAdmin, nil
	}
	switch actor.ID {
	case c.ClientID:
		return roleClient, nil
	case c.ProviderID:
		return roleProvider, nil
	}
	return roleNone, utils.NewForbiddenError("you are not a party to this contract")
}

// notice describes the notification a successful transition emits.
type notice struct {
	recipientID string
	eventType   string
	title       string
	message     string
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// applyTransition validates the requested status change against the
// transition table and mutates the contract accordingly. The contract is only
// mutated when the transition is legal; on error it is left untouched.
// Returns the notifications to emit once the contract has been persisted.
func applyTransition(c *models.Contract, role actorRole, req StatusUpdateRequest, now time.Time) ([]notice, error) {
	if !models.IsValidContractStatus(req.Status) {
		return nil, utils.NewValidationError("unknown contract status %q", req.Status)
	}

	if role == roleAdmin {
		return applyAdminOverride(c, req, now), nil
	}

	// Terminal states admit no further engine-driven mutation.
	if models.IsTerminalContractStatus(c.Status) {
		return nil, utils.NewInvalidTransitionError(c.Status, req.Status)
	}

	switch role {
	case roleProvider:
		return applyProviderTransition(c, req, now)
	case roleClient:
		return applyClientTransition(c, req, now)
	}
	return nil, utils.NewForbiddenError("you are not a party to this contract")
}

func applyProviderTransition(c *models.Contract, req StatusUpdateRequest, now time.Time) ([]notice, error) {
	switch {
	case c.Status == models.ContractStatusPendingAcceptance && req.Status == models.ContractStatusAccepted:
		price := c.ProposedPrice
		if req.AgreedPrice != nil {
			if *req.AgreedPrice < 0 {
				return nil, utils.NewValidationError("agreed_price cannot be negative")
			}
			price = *req.AgreedPrice
		}
		agreed := round2(price)
		c.AgreedPrice = &agreed
		c.Status = models.ContractStatusAccepted
		if req.StartDate != nil {
			c.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			c.EndDate = req.EndDate
		}
		return []notice{clientNotice(c, models.NotificationContractAccepted,
			"Proposal accepted", "Your contract proposal has been accepted by the provider.")}, nil

	case c.Status == models.ContractStatusPendingAcceptance && req.Status == models.ContractStatusPendingClientAgreement:
		if req.AgreedPrice == nil {
			return nil, utils.NewValidationError("agreed_price is required for a counter-offer")
		}
		if *req.AgreedPrice < 0 {
			return nil, utils.NewValidationError("agreed_price cannot be negative")
		}
		agreed := round2(*req.AgreedPrice)
		c.AgreedPrice = &agreed
		c.Status = models.ContractStatusPendingClientAgreement
		return []notice{clientNotice(c, models.NotificationContractNegotiation,
			"Counter-offer received", "The provider made a counter-offer on your contract.")}, nil

	case c.Status == models.ContractStatusAccepted && req.Status == models.ContractStatusInProgress:
		start := now
		if req.StartDate != nil {
			start = *req.StartDate
		}
		c.StartDate = &start
		c.Status = models.ContractStatusInProgress
		return []notice{clientNotice(c, models.NotificationContractUpdate,
			"Work started", "The provider has started work on your contract.")}, nil

	case c.Status == models.ContractStatusInProgress && req.Status == models.ContractStatusCompleted:
		completeContract(c, req, now)
		return []notice{clientNotice(c, models.NotificationContractCompletion,
			"Contract completed", "The provider marked your contract as completed.")}, nil

	case req.Status == models.ContractStatusCancelled:
		cancelContract(c, req)
		return []notice{clientNotice(c, models.NotificationContractCancellation,
			"Contract cancelled", "The provider cancelled the contract.")}, nil
	}
	return nil, utils.NewInvalidTransitionError(c.Status, req.Status)
}

func applyClientTransition(c *models.Contract, req StatusUpdateRequest, now time.Time) ([]notice, error) {
	switch {
	case c.Status == models.ContractStatusPendingClientAgreement && req.Status == models.ContractStatusAccepted:
		// Counter-offer acceptance keeps the provider's price.
		c.Status = models.ContractStatusAccepted
		return []notice{providerNotice(c, models.NotificationContractAccepted,
			"Counter-offer accepted", "The client accepted your counter-offer.")}, nil

	case c.Status == models.ContractStatusInProgress && req.Status == models.ContractStatusCompleted:
		completeContract(c, req, now)
		return []notice{providerNotice(c, models.NotificationContractCompletion,
			"Contract completed", "The client marked the contract as completed.")}, nil

	case req.Status == models.ContractStatusCancelled:
		cancelContract(c, req)
		return []notice{providerNotice(c, models.NotificationContractCancellation,
			"Contract cancelled", "The client cancelled the contract.")}, nil
	}
	return nil, utils.NewInvalidTransitionError(c.Status, req.Status)
}

// applyAdminOverride lets an admin set any status and override negotiation
// fields directly. Every non-admin invariant is bypassed deliberately.
func applyAdminOverride(c *models.Contract, req StatusUpdateRequest, now time.Time) []notice {
	c.Status = req.Status
	if req.AgreedPrice != nil {
		agreed := round2(*req.AgreedPrice)
		c.AgreedPrice = &agreed
	}
	if req.StartDate != nil {
		c.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = req.EndDate
	}
	if req.CancellationReason != "" {
		c.CancellationReason = req.CancellationReason
	}
	if req.Status == models.ContractStatusCompleted {
		c.CompletionDate = &now
	}
	msg := "An administrator updated the contract status to " + req.Status + "."
	return []notice{
		clientNotice(c, models.NotificationContractUpdate, "Contract updated", msg),
		providerNotice(c, models.NotificationContractUpdate, "Contract updated", msg),
	}
}

func completeContract(c *models.Contract, req StatusUpdateRequest, now time.Time) {
	c.Status = models.ContractStatusCompleted
	c.CompletionDate = &now
	end := now
	if req.EndDate != nil {
		end = *req.EndDate
	}
	c.EndDate = &end
}

func cancelContract(c *models.Contract, req StatusUpdateRequest) {
	c.Status = models.ContractStatusCancelled
	c.CancellationReason = req.CancellationReason
}

func clientNotice(c *models.Contract, eventType, title, message string) notice {
	return notice{recipientID: c.ClientID, eventType: eventType, title: title, message: message}
}

func providerNotice(c *models.Contract, eventType, title, message string) notice {
	return notice{recipientID: c.ProviderID, eventType: eventType, title: title, message: message}
}
