package imageRepo

import "servimarket/models"

// ImageRepository defines methods for service image data access.
type ImageRepository interface {
	Create(image *models.ServiceImage) error
	// GetByID retrieves an image by ID, or nil when absent.
	GetByID(id string) (*models.ServiceImage, error)
	// ListByService retrieves a service's images in display order.
	ListByService(serviceID string) ([]models.ServiceImage, error)
	// ClearPrimary unsets the primary flag on all of a service's images.
	ClearPrimary(serviceID string) error
	Delete(id string) error
	// DeleteByService removes all images attached to a service.
	DeleteByService(serviceID string) error
}
