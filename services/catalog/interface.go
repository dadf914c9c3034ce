package catalog

import (
	"context"
	"mime/multipart"

	categoryRepo "servimarket/database/repository/category"
	favoriteRepo "servimarket/database/repository/favorite"
	imageRepo "servimarket/database/repository/image"
	serviceRepo "servimarket/database/repository/service"
	"servimarket/models"
	"servimarket/services/notification"

	"github.com/cloudinary/cloudinary-go/v2"
)

// CatalogService covers the browsing surface: categories, service listings,
// favorites and service images.
type CatalogService interface {
	// Categories
	CreateCategory(roles models.RoleSet, req CategoryRequest) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	UpdateCategory(roles models.RoleSet, id string, req CategoryRequest) (*models.Category, error)
	DeleteCategory(roles models.RoleSet, id string) error

	// Services
	CreateService(actor *models.User, roles models.RoleSet, req ServiceRequest) (*models.Service, error)
	GetServices(filter models.ServiceFilter) ([]models.Service, error)
	GetServiceByID(id string) (*models.Service, error)
	UpdateService(actor *models.User, roles models.RoleSet, id string, req ServiceUpdateRequest) (*models.Service, error)
	DeleteService(ctx context.Context, actor *models.User, roles models.RoleSet, id string) error

	// Favorites
	AddFavorite(actor *models.User, serviceID string) (*models.Favorite, error)
	GetFavorites(actor *models.User) ([]FavoriteEntry, error)
	RemoveFavorite(actor *models.User, serviceID string) error

	// Images
	AddServiceImage(ctx context.Context, actor *models.User, roles models.RoleSet, serviceID string, file multipart.File, req ImageRequest) (*models.ServiceImage, error)
	GetServiceImages(serviceID string) ([]models.ServiceImage, error)
	DeleteServiceImage(ctx context.Context, actor *models.User, roles models.RoleSet, serviceID, imageID string) error
}

// DefaultCatalogService is the production implementation.
type DefaultCatalogService struct {
	Categories categoryRepo.CategoryRepository
	Services   serviceRepo.ServiceRepository
	Favorites  favoriteRepo.FavoriteRepository
	Images     imageRepo.ImageRepository
	Cld        *cloudinary.Cloudinary
	Notifier   notification.Emitter
}

// CategoryRequest carries category create/update payloads.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Status      string `json:"status"`
}

// ServiceRequest carries a new service listing.
type ServiceRequest struct {
	CategoryID       string   `json:"category_id" binding:"required"`
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	Price            *float64 `json:"price" binding:"required"`
	PriceUnit        string   `json:"price_unit"`
	Location         string   `json:"location" binding:"required"`
	ServiceType      string   `json:"service_type"`
	DurationEstimate string   `json:"duration_estimate"`
	Requirements     string   `json:"requirements"`
}

// ServiceUpdateRequest carries a partial service update.
type ServiceUpdateRequest struct {
	CategoryID       string   `json:"category_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Price            *float64 `json:"price"`
	PriceUnit        string   `json:"price_unit"`
	Location         string   `json:"location"`
	ServiceType      string   `json:"service_type"`
	DurationEstimate string   `json:"duration_estimate"`
	Requirements     string   `json:"requirements"`
	Status           string   `json:"status"`
}

// ImageRequest carries image metadata alongside the upload.
type ImageRequest struct {
	Caption      string
	IsPrimary    bool
	DisplayOrder int
}

// FavoriteEntry joins a favorite with its service data for listings.
type FavoriteEntry struct {
	Favorite models.Favorite `json:"favorite"`
	Service  *models.Service `json:"service,omitempty"`
}
