package favoriteRepo

import "servimarket/models"

// FavoriteRepository defines methods for favorite data access.
type FavoriteRepository interface {
	Create(favorite *models.Favorite) error
	// Get retrieves the favorite for a (user, service) pair, or nil when absent.
	Get(userID, serviceID string) (*models.Favorite, error)
	// ListForUser retrieves a user's favorites, newest first.
	ListForUser(userID string) ([]models.Favorite, error)
	Delete(userID, serviceID string) error
}
