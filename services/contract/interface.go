package contract

import (
	"time"

	contractRepo "servimarket/database/repository/contract"
	serviceRepo "servimarket/database/repository/service"
	userRepo "servimarket/database/repository/user"
	"servimarket/models"
	"servimarket/services/notification"
)

// ContractService owns the contract lifecycle: creation, validated status
// transitions, price negotiation and admin deletion.
type ContractService interface {
	CreateContract(actor *models.User, roles models.RoleSet, req CreateRequest) (*models.Contract, error)
	GetContracts(actor *models.User, roles models.RoleSet, query ListQuery) ([]models.Contract, error)
	GetContractByID(actor *models.User, roles models.RoleSet, id string) (*models.Contract, error)
	UpdateStatus(actor *models.User, roles models.RoleSet, id string, req StatusUpdateRequest) (*models.Contract, error)
	NegotiatePrice(actor *models.User, roles models.RoleSet, id string, req NegotiateRequest) (*models.Contract, error)
	DeleteContract(actor *models.User, roles models.RoleSet, id string) error
}

// DefaultContractService is the production implementation.
type DefaultContractService struct {
	Repo        contractRepo.ContractRepository
	ServiceRepo serviceRepo.ServiceRepository
	UserRepo    userRepo.UserRepository
	Notifier    notification.Emitter
}

// CreateRequest carries a contract proposal from a client.
type CreateRequest struct {
	ServiceID         string   `json:"service_id" binding:"required"`
	Title             string   `json:"title" binding:"required"`
	Description       string   `json:"description" binding:"required"`
	Location          string   `json:"location" binding:"required"`
	ProposedPrice     *float64 `json:"proposed_price"`
	EstimatedDuration string   `json:"estimated_duration"`
	ClientNotes       string   `json:"client_notes"`
}

// StatusUpdateRequest carries a requested status transition. AgreedPrice,
// dates and the cancellation reason apply only where the transition table
// allows them; admins may override fields freely.
type StatusUpdateRequest struct {
	Status             string     `json:"status" binding:"required"`
	CancellationReason string     `json:"cancellation_reason"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	AgreedPrice        *float64   `json:"agreed_price"`
}

// NegotiateRequest carries a price counter-offer.
type NegotiateRequest struct {
	NewPrice *float64 `json:"new_price" binding:"required"`
}

// ListQuery narrows GetContracts.
type ListQuery struct {
	Role   string // "client" or "provider": restrict to that side
	Status string
}
