package categoryRepo

import "servimarket/models"

// CategoryRepository defines methods for category data access.
type CategoryRepository interface {
	Create(category *models.Category) error
	// GetByID retrieves a category by ID, or nil when absent.
	GetByID(id string) (*models.Category, error)
	// GetByName retrieves a category by its unique name, or nil when absent.
	GetByName(name string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id string) error
}
