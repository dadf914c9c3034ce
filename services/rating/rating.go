package rating

import (
	"context"
	"fmt"

	"servimarket/models"
	"servimarket/services/notification"
	"servimarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateRating validates every precondition against the contract, writes the
// rating and recomputes the target aggregates.
func (s *DefaultRatingService) CreateRating(actor *models.User, roles models.RoleSet, req CreateRequest) (*models.Rating, error) {
	logger := utils.GetLogger()

	c, err := s.ContractRepo.GetByID(req.ContractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, utils.NewNotFoundError("contract %s not found", req.ContractID)
	}
	if c.Status != models.ContractStatusCompleted {
		return nil, utils.NewValidationError("ratings are only permitted on completed contracts, current status is %q", c.Status)
	}
	if req.RatingValue < 1 || req.RatingValue > 5 {
		return nil, utils.NewValidationError("rating_value must be between 1 and 5")
	}

	var raterRole, ratedRole string
	switch actor.ID {
	case c.ClientID:
		raterRole, ratedRole = models.RatingRoleClient, models.RatingRoleProvider
	case c.ProviderID:
		raterRole, ratedRole = models.RatingRoleProvider, models.RatingRoleClient
	default:
		return nil, utils.NewForbiddenError("only contract participants may rate")
	}

	// The rated party must be the other participant.
	var expectedRated string
	if raterRole == models.RatingRoleClient {
		expectedRated = c.ProviderID
	} else {
		expectedRated = c.ClientID
	}
	if req.RatedID != expectedRated {
		return nil, utils.NewValidationError("rated_id must be the other contract participant")
	}

	if req.ServiceID != c.ServiceID {
		return nil, utils.NewValidationError("service_id does not match the contract's service")
	}

	svc, err := s.ServiceRepo.GetByID(req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, utils.NewNotFoundError("service %s not found", req.ServiceID)
	}
	if raterRole == models.RatingRoleClient && svc.UserID != req.RatedID {
		return nil, utils.NewValidationError("rated provider does not own the contracted service")
	}

	existing, err := s.Repo.GetByTriple(req.ContractID, actor.ID, req.RatedID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("you have already rated this party on this contract")
	}

	r := &models.Rating{
		ID:          uuid.NewString(),
		ContractID:  req.ContractID,
		ServiceID:   req.ServiceID,
		RaterID:     actor.ID,
		RatedID:     req.RatedID,
		RatingValue: req.RatingValue,
		Comment:     req.Comment,
		IsAnonymous: req.IsAnonymous,
		RaterRole:   raterRole,
		RatedRole:   ratedRole,
	}
	if err := s.Repo.Create(r); err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	if err := s.recomputeAggregates(r.ServiceID, r.RatedID); err != nil {
		logger.Error("Failed to recompute rating aggregates",
			zap.String("ratingID", r.ID), zap.Error(err))
	}

	s.Notifier.Emit(context.Background(), notification.Event{
		UserID:    r.RatedID,
		Title:     "New rating received",
		Message:   fmt.Sprintf("You received a %d-star rating.", r.RatingValue),
		Type:      models.NotificationSystemAlert,
		RelatedID: r.ID,
	})

	logger.Info("Rating created",
		zap.String("ratingID", r.ID),
		zap.String("contractID", r.ContractID),
		zap.Int("value", r.RatingValue))
	return r, nil
}

// GetRating retrieves one rating.
func (s *DefaultRatingService) GetRating(id string) (*models.Rating, error) {
	r, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, utils.NewNotFoundError("rating %s not found", id)
	}
	anon := r.Anonymized()
	return &anon, nil
}

// GetRatingsByService lists a service's ratings with anonymous raters hidden.
func (s *DefaultRatingService) GetRatingsByService(serviceID string) ([]models.Rating, error) {
	ratings, err := s.Repo.ListByService(serviceID)
	if err != nil {
		return nil, err
	}
	return anonymizeAll(ratings), nil
}

// GetRatingsByUser lists ratings received by a user with anonymous raters hidden.
func (s *DefaultRatingService) GetRatingsByUser(userID string) ([]models.Rating, error) {
	ratings, err := s.Repo.ListByRated(userID)
	if err != nil {
		return nil, err
	}
	return anonymizeAll(ratings), nil
}

func anonymizeAll(ratings []models.Rating) []models.Rating {
	out := make([]models.Rating, len(ratings))
	for i, r := range ratings {
		out[i] = r.Anonymized()
	}
	return out
}

// UpdateRating lets the original rater or an admin revise a rating, then
// recomputes the aggregates.
func (s *DefaultRatingService) UpdateRating(actor *models.User, roles models.RoleSet, id string, req UpdateRequest) (*models.Rating, error) {
	r, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, utils.NewNotFoundError("rating %s not found", id)
	}
	if r.RaterID != actor.ID && !roles.Admin {
		return nil, utils.NewForbiddenError("only the original rater or an admin may update a rating")
	}

	if req.RatingValue != nil {
		if *req.RatingValue < 1 || *req.RatingValue > 5 {
			return nil, utils.NewValidationError("rating_value must be between 1 and 5")
		}
		r.RatingValue = *req.RatingValue
	}
	if req.Comment != nil {
		r.Comment = *req.Comment
	}
	if req.IsAnonymous != nil {
		r.IsAnonymous = *req.IsAnonymous
	}

	if err := s.Repo.Update(r); err != nil {
		return nil, err
	}
	if err := s.recomputeAggregates(r.ServiceID, r.RatedID); err != nil {
		utils.GetLogger().Error("Failed to recompute rating aggregates",
			zap.String("ratingID", r.ID), zap.Error(err))
	}
	return r, nil
}

// DeleteRating removes a rating and recomputes the aggregates.
func (s *DefaultRatingService) DeleteRating(actor *models.User, roles models.RoleSet, id string) error {
	r, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if r == nil {
		return utils.NewNotFoundError("rating %s not found", id)
	}
	if r.RaterID != actor.ID && !roles.Admin {
		return utils.NewForbiddenError("only the original rater or an admin may delete a rating")
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	if err := s.recomputeAggregates(r.ServiceID, r.RatedID); err != nil {
		utils.GetLogger().Error("Failed to recompute rating aggregates",
			zap.String("ratingID", r.ID), zap.Error(err))
	}
	return nil
}
