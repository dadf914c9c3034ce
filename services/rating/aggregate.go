package rating

import (
	"fmt"
	"math"
)

// round1 rounds to one decimal place, the precision stored on the derived
// aggregate fields.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// recomputeAggregates rebuilds the rating average and count for both the
// service and the rated user from the full rating set. Each target is
// recomputed under its own lock so concurrent rating writes cannot interleave
// their read-recompute-write cycles.
func (s *DefaultRatingService) recomputeAggregates(serviceID, ratedID string) error {
	if err := s.recomputeService(serviceID); err != nil {
		return err
	}
	return s.recomputeUser(ratedID)
}

func (s *DefaultRatingService) recomputeService(serviceID string) error {
	lock := s.locks.get("service:" + serviceID)
	lock.Lock()
	defer lock.Unlock()

	average, count, err := s.Repo.AggregateForService(serviceID)
	if err != nil {
		return fmt.Errorf("failed to aggregate service ratings: %w", err)
	}
	if err := s.ServiceRepo.UpdateRating(serviceID, round1(average), count); err != nil {
		return fmt.Errorf("failed to persist service rating aggregate: %w", err)
	}
	return nil
}

func (s *DefaultRatingService) recomputeUser(ratedID string) error {
	lock := s.locks.get("user:" + ratedID)
	lock.Lock()
	defer lock.Unlock()

	average, count, err := s.Repo.AggregateForUser(ratedID)
	if err != nil {
		return fmt.Errorf("failed to aggregate user ratings: %w", err)
	}
	if err := s.UserRepo.UpdateRating(ratedID, round1(average), count); err != nil {
		return fmt.Errorf("failed to persist user rating aggregate: %w", err)
	}
	return nil
}
