package catalog

import (
	"strings"
	"time"

	"servimarket/models"
	"servimarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var categoryStatuses = []string{
	models.CategoryStatusActive,
	models.CategoryStatusInactive,
	models.CategoryStatusPendingReview,
}

func isValidCategoryStatus(status string) bool {
	for _, s := range categoryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CreateCategory adds a taxonomy entry. Admin only; names are unique.
func (s *DefaultCatalogService) CreateCategory(roles models.RoleSet, req CategoryRequest) (*models.Category, error) {
	if !roles.Admin {
		return nil, utils.NewForbiddenError("only administrators can manage categories")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewValidationError("category name is required")
	}
	status := req.Status
	if status == "" {
		status = models.CategoryStatusActive
	}
	if !isValidCategoryStatus(status) {
		return nil, utils.NewValidationError("unknown category status %q", status)
	}

	existing, err := s.Categories.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("a category named %q already exists", name)
	}

	now := time.Now()
	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Categories.Create(category); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Category created",
		zap.String("categoryID", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *DefaultCatalogService) GetCategories() ([]models.Category, error) {
	return s.Categories.GetAll()
}

func (s *DefaultCatalogService) GetCategoryByID(id string) (*models.Category, error) {
	category, err := s.Categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, utils.NewNotFoundError("category %s not found", id)
	}
	return category, nil
}

// UpdateCategory applies a partial update. Admin only; renames keep the
// uniqueness guarantee.
func (s *DefaultCatalogService) UpdateCategory(roles models.RoleSet, id string, req CategoryRequest) (*models.Category, error) {
	if !roles.Admin {
		return nil, utils.NewForbiddenError("only administrators can manage categories")
	}

	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != category.Name {
		existing, err := s.Categories.GetByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, utils.NewConflictError("a category named %q already exists", name)
		}
		category.Name = name
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}
	if req.Color != "" {
		category.Color = req.Color
	}
	if req.Status != "" {
		if !isValidCategoryStatus(req.Status) {
			return nil, utils.NewValidationError("unknown category status %q", req.Status)
		}
		category.Status = req.Status
	}
	category.UpdatedAt = time.Now()

	if err := s.Categories.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Blocked while services still reference it.
func (s *DefaultCatalogService) DeleteCategory(roles models.RoleSet, id string) error {
	if !roles.Admin {
		return utils.NewForbiddenError("only administrators can manage categories")
	}

	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}

	count, err := s.Services.CountByCategory(category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.NewConflictError("category %s still has %d services", category.ID, count)
	}

	if err := s.Categories.Delete(category.ID); err != nil {
		return err
	}
	utils.GetLogger().Info("Category deleted", zap.String("categoryID", category.ID))
	return nil
}
