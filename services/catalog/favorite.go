package catalog

import (
	"time"

	"servimarket/models"
	"servimarket/utils"

	"github.com/google/uuid"
)

// AddFavorite saves a service for the actor. A pair can only be saved once.
func (s *DefaultCatalogService) AddFavorite(actor *models.User, serviceID string) (*models.Favorite, error) {
	service, err := s.Services.GetByID(serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, utils.NewNotFoundError("service %s not found", serviceID)
	}

	existing, err := s.Favorites.Get(actor.ID, service.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("service %s is already in your favorites", service.ID)
	}

	favorite := &models.Favorite{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		ServiceID: service.ID,
		CreatedAt: time.Now(),
	}
	if err := s.Favorites.Create(favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

// GetFavorites lists the actor's saved services, newest first, with the
// service data attached. Listings that have since been deleted are skipped.
func (s *DefaultCatalogService) GetFavorites(actor *models.User) ([]FavoriteEntry, error) {
	favorites, err := s.Favorites.ListForUser(actor.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]FavoriteEntry, 0, len(favorites))
	for _, fav := range favorites {
		service, err := s.Services.GetByID(fav.ServiceID)
		if err != nil {
			return nil, err
		}
		if service == nil {
			continue
		}
		entries = append(entries, FavoriteEntry{Favorite: fav, Service: service})
	}
	return entries, nil
}

func (s *DefaultCatalogService) RemoveFavorite(actor *models.User, serviceID string) error {
	existing, err := s.Favorites.Get(actor.ID, serviceID)
	if err != nil {
		return err
	}
	if existing == nil {
		return utils.NewNotFoundError("service %s is not in your favorites", serviceID)
	}
	return s.Favorites.Delete(actor.ID, serviceID)
}
