package ratingRepo

import "servimarket/models"

// RatingRepository defines methods for rating data access.
type RatingRepository interface {
	Create(rating *models.Rating) error
	// GetByID retrieves a rating by ID, or nil when absent.
	GetByID(id string) (*models.Rating, error)
	// GetByTriple retrieves the rating keyed on (contract, rater, rated), or
	// nil when absent.
	GetByTriple(contractID, raterID, ratedID string) (*models.Rating, error)
	// ListByService retrieves all ratings for a service, newest first.
	ListByService(serviceID string) ([]models.Rating, error)
	// ListByRated retrieves all ratings received by a user, newest first.
	ListByRated(userID string) ([]models.Rating, error)
	Update(rating *models.Rating) error
	Delete(id string) error
	// AggregateForService computes the mean and count of rating values
	// referencing the service.
	AggregateForService(serviceID string) (average float64, count int, err error)
	// AggregateForUser computes the mean and count of rating values received
	// by the user.
	AggregateForUser(ratedID string) (average float64, count int, err error)
}
