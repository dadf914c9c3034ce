package serviceRepo

import "servimarket/models"

// ServiceRepository defines methods for service listing data access.
type ServiceRepository interface {
	Create(service *models.Service) error
	// GetByID retrieves a service by ID, or nil when absent.
	GetByID(id string) (*models.Service, error)
	// List retrieves services matching the filter.
	List(filter models.ServiceFilter) ([]models.Service, error)
	Update(service *models.Service) error
	Delete(id string) error
	// IncrementViews bumps the views counter without touching updated_at.
	IncrementViews(id string) error
	// CountByCategory counts services referencing a category.
	CountByCategory(categoryID string) (int64, error)
	// UpdateRating sets the derived rating aggregate fields.
	UpdateRating(id string, average float64, count int) error
}
