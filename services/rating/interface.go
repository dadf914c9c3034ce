package rating

import (
	"sync"

	contractRepo "servimarket/database/repository/contract"
	ratingRepo "servimarket/database/repository/rating"
	serviceRepo "servimarket/database/repository/service"
	userRepo "servimarket/database/repository/user"
	"servimarket/models"
	"servimarket/services/notification"
)

// RatingService validates rating writes against their contract and keeps the
// derived rating aggregates on Service and User consistent.
type RatingService interface {
	CreateRating(actor *models.User, roles models.RoleSet, req CreateRequest) (*models.Rating, error)
	GetRating(id string) (*models.Rating, error)
	GetRatingsByService(serviceID string) ([]models.Rating, error)
	GetRatingsByUser(userID string) ([]models.Rating, error)
	UpdateRating(actor *models.User, roles models.RoleSet, id string, req UpdateRequest) (*models.Rating, error)
	DeleteRating(actor *models.User, roles models.RoleSet, id string) error
}

// DefaultRatingService is the production implementation.
type DefaultRatingService struct {
	Repo         ratingRepo.RatingRepository
	ContractRepo contractRepo.ContractRepository
	ServiceRepo  serviceRepo.ServiceRepository
	UserRepo     userRepo.UserRepository
	Notifier     notification.Emitter

	// locks serializes aggregate recomputation per target id so two
	// interleaved writes cannot leave a stale average behind.
	locks keyedMutex
}

// CreateRequest carries a new rating.
type CreateRequest struct {
	ContractID  string `json:"contract_id" binding:"required"`
	ServiceID   string `json:"service_id" binding:"required"`
	RatedID     string `json:"rated_id" binding:"required"`
	RatingValue int    `json:"rating_value" binding:"required"`
	Comment     string `json:"comment"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// UpdateRequest carries a partial rating update.
type UpdateRequest struct {
	RatingValue *int    `json:"rating_value"`
	Comment     *string `json:"comment"`
	IsAnonymous *bool   `json:"is_anonymous"`
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}
