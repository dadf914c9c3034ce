package contractRepo

import (
	"errors"

	"servimarket/models"
)

// ErrVersionConflict is returned by ReplaceVersioned when the stored document
// no longer carries the version the caller read.
var ErrVersionConflict = errors.New("contract was modified concurrently")

// ContractRepository defines methods for contract data access.
type ContractRepository interface {
	Create(contract *models.Contract) error
	// GetByID retrieves a contract by ID, or nil when absent.
	GetByID(id string) (*models.Contract, error)
	// List retrieves contracts matching the filter, newest first.
	List(filter models.ContractFilter) ([]models.Contract, error)
	// ReplaceVersioned persists the contract if and only if the stored version
	// matches contract.Version, then increments it. Returns ErrVersionConflict
	// on a lost race.
	ReplaceVersioned(contract *models.Contract) error
	Delete(id string) error
}
