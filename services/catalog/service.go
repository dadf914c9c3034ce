package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"servimarket/models"
	"servimarket/services/notification"
	"servimarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	serviceStatuses = []string{
		models.ServiceStatusActive,
		models.ServiceStatusInactive,
		models.ServiceStatusReview,
		models.ServiceStatusSuspended,
	}
	priceUnits = []string{
		models.PriceUnitPerHour,
		models.PriceUnitPerProject,
		models.PriceUnitPerItem,
		models.PriceUnitFixed,
	}
	serviceTypes = []string{
		models.ServiceTypeOnline,
		models.ServiceTypeInPerson,
		models.ServiceTypeHybrid,
	}
)

func contains(vals []string, v string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateListingFields(title, description, location string) error {
	if n := len(strings.TrimSpace(title)); n < 5 || n > 100 {
		return utils.NewValidationError("title must be between 5 and 100 characters")
	}
	if n := len(strings.TrimSpace(description)); n < 10 || n > 1000 {
		return utils.NewValidationError("description must be between 10 and 1000 characters")
	}
	if len(location) > 200 {
		return utils.NewValidationError("location must be at most 200 characters")
	}
	return nil
}

// CreateService publishes a listing owned by the acting provider. The
// category must exist and be active.
func (s *DefaultCatalogService) CreateService(actor *models.User, roles models.RoleSet, req ServiceRequest) (*models.Service, error) {
	if !roles.Provider {
		return nil, utils.NewForbiddenError("only providers can publish services")
	}
	if err := validateListingFields(req.Title, req.Description, req.Location); err != nil {
		return nil, err
	}
	if req.Price == nil || *req.Price < 0 {
		return nil, utils.NewValidationError("price must be a non-negative number")
	}

	priceUnit := req.PriceUnit
	if priceUnit == "" {
		priceUnit = models.PriceUnitFixed
	}
	if !contains(priceUnits, priceUnit) {
		return nil, utils.NewValidationError("unknown price unit %q", priceUnit)
	}
	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = models.ServiceTypeInPerson
	}
	if !contains(serviceTypes, serviceType) {
		return nil, utils.NewValidationError("unknown service type %q", serviceType)
	}

	category, err := s.Categories.GetByID(req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, utils.NewNotFoundError("category %s not found", req.CategoryID)
	}
	if category.Status != models.CategoryStatusActive {
		return nil, utils.NewValidationError("category %s is not active", category.ID)
	}

	now := time.Now()
	service := &models.Service{
		ID:               uuid.NewString(),
		UserID:           actor.ID,
		CategoryID:       category.ID,
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		Price:            roundPrice(*req.Price),
		PriceUnit:        priceUnit,
		Location:         req.Location,
		ServiceType:      serviceType,
		DurationEstimate: req.DurationEstimate,
		Requirements:     req.Requirements,
		Status:           models.ServiceStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Services.Create(service); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Service created",
		zap.String("serviceID", service.ID), zap.String("providerID", actor.ID))
	return service, nil
}

func (s *DefaultCatalogService) GetServices(filter models.ServiceFilter) ([]models.Service, error) {
	return s.Services.List(filter)
}

// GetServiceByID returns the listing and bumps its view counter. The counter
// write is best-effort.
func (s *DefaultCatalogService) GetServiceByID(id string) (*models.Service, error) {
	if service := s.cachedService(id); service != nil {
		if err := s.Services.IncrementViews(service.ID); err != nil {
			utils.GetLogger().Warn("Failed to increment service views",
				zap.String("serviceID", service.ID), zap.Error(err))
		} else {
			service.ViewsCount++
		}
		return service, nil
	}

	service, err := s.Services.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, utils.NewNotFoundError("service %s not found", id)
	}

	if err := s.Services.IncrementViews(service.ID); err != nil {
		utils.GetLogger().Warn("Failed to increment service views",
			zap.String("serviceID", service.ID), zap.Error(err))
	} else {
		service.ViewsCount++
	}
	s.cacheService(service)
	return service, nil
}

// UpdateService applies a partial update. The owner can edit listing content
// and flip between active and inactive; review and suspended are admin-only
// statuses.
func (s *DefaultCatalogService) UpdateService(actor *models.User, roles models.RoleSet, id string, req ServiceUpdateRequest) (*models.Service, error) {
	service, err := s.Services.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, utils.NewNotFoundError("service %s not found", id)
	}
	if service.UserID != actor.ID && !roles.Admin {
		return nil, utils.NewForbiddenError("you do not own this service")
	}

	if req.Title != "" {
		if n := len(strings.TrimSpace(req.Title)); n < 5 || n > 100 {
			return nil, utils.NewValidationError("title must be between 5 and 100 characters")
		}
		service.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		if n := len(strings.TrimSpace(req.Description)); n < 10 || n > 1000 {
			return nil, utils.NewValidationError("description must be between 10 and 1000 characters")
		}
		service.Description = strings.TrimSpace(req.Description)
	}
	if req.Location != "" {
		if len(req.Location) > 200 {
			return nil, utils.NewValidationError("location must be at most 200 characters")
		}
		service.Location = req.Location
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, utils.NewValidationError("price must be a non-negative number")
		}
		service.Price = roundPrice(*req.Price)
	}
	if req.PriceUnit != "" {
		if !contains(priceUnits, req.PriceUnit) {
			return nil, utils.NewValidationError("unknown price unit %q", req.PriceUnit)
		}
		service.PriceUnit = req.PriceUnit
	}
	if req.ServiceType != "" {
		if !contains(serviceTypes, req.ServiceType) {
			return nil, utils.NewValidationError("unknown service type %q", req.ServiceType)
		}
		service.ServiceType = req.ServiceType
	}
	if req.DurationEstimate != "" {
		service.DurationEstimate = req.DurationEstimate
	}
	if req.Requirements != "" {
		service.Requirements = req.Requirements
	}
	if req.CategoryID != "" && req.CategoryID != service.CategoryID {
		category, err := s.Categories.GetByID(req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, utils.NewNotFoundError("category %s not found", req.CategoryID)
		}
		if category.Status != models.CategoryStatusActive {
			return nil, utils.NewValidationError("category %s is not active", category.ID)
		}
		service.CategoryID = category.ID
	}
	if req.Status != "" && req.Status != service.Status {
		if !contains(serviceStatuses, req.Status) {
			return nil, utils.NewValidationError("unknown service status %q", req.Status)
		}
		adminOnly := req.Status == models.ServiceStatusReview || req.Status == models.ServiceStatusSuspended ||
			service.Status == models.ServiceStatusReview || service.Status == models.ServiceStatusSuspended
		if adminOnly && !roles.Admin {
			return nil, utils.NewForbiddenError(fmt.Sprintf("status %q can only be set by an administrator", req.Status))
		}
		service.Status = req.Status

		// Admin moderation is surfaced to the owner.
		if roles.Admin && actor.ID != service.UserID {
			s.Notifier.Emit(context.Background(), notification.Event{
				UserID:    service.UserID,
				Title:     "Service status changed",
				Message:   "Your service \"" + service.Title + "\" is now " + service.Status + ".",
				Type:      models.NotificationServiceUpdate,
				RelatedID: service.ID,
			})
		}
	}
	service.UpdatedAt = time.Now()

	if err := s.Services.Update(service); err != nil {
		return nil, err
	}
	s.evictService(service.ID)
	return service, nil
}

// DeleteService removes a listing along with its stored images.
func (s *DefaultCatalogService) DeleteService(ctx context.Context, actor *models.User, roles models.RoleSet, id string) error {
	service, err := s.Services.GetByID(id)
	if err != nil {
		return err
	}
	if service == nil {
		return utils.NewNotFoundError("service %s not found", id)
	}
	if service.UserID != actor.ID && !roles.Admin {
		return utils.NewForbiddenError("you do not own this service")
	}

	images, err := s.Images.ListByService(service.ID)
	if err != nil {
		return err
	}
	for _, img := range images {
		s.destroyAsset(ctx, img.PublicID)
	}
	if err := s.Images.DeleteByService(service.ID); err != nil {
		return err
	}

	if err := s.Services.Delete(service.ID); err != nil {
		return err
	}
	s.evictService(service.ID)
	utils.GetLogger().Info("Service deleted",
		zap.String("serviceID", service.ID), zap.String("actorID", actor.ID))
	return nil
}
