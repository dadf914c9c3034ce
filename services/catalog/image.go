package catalog

import (
	"context"
	"mime/multipart"
	"time"

	"servimarket/models"
	"servimarket/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImagesPerService = 10

// AddServiceImage uploads the file to Cloudinary and attaches it to the
// listing. A primary image demotes any previous primary.
func (s *DefaultCatalogService) AddServiceImage(ctx context.Context, actor *models.User, roles models.RoleSet, serviceID string, file multipart.File, req ImageRequest) (*models.ServiceImage, error) {
	service, err := s.Services.GetByID(serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, utils.NewNotFoundError("service %s not found", serviceID)
	}
	if service.UserID != actor.ID && !roles.Admin {
		return nil, utils.NewForbiddenError("you do not own this service")
	}

	existing, err := s.Images.ListByService(service.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= maxImagesPerService {
		return nil, utils.NewValidationError("a service can have at most %d images", maxImagesPerService)
	}

	result, err := s.Cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: "services/" + service.ID,
	})
	if err != nil {
		utils.GetLogger().Error("Cloudinary upload failed",
			zap.String("serviceID", service.ID), zap.Error(err))
		return nil, utils.NewValidationError("image upload failed")
	}

	if req.IsPrimary {
		if err := s.Images.ClearPrimary(service.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	image := &models.ServiceImage{
		ID:           uuid.NewString(),
		ServiceID:    service.ID,
		ImageURL:     result.SecureURL,
		PublicID:     result.PublicID,
		Caption:      req.Caption,
		IsPrimary:    req.IsPrimary || len(existing) == 0,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Images.Create(image); err != nil {
		s.destroyAsset(ctx, image.PublicID)
		return nil, err
	}

	utils.GetLogger().Info("Service image added",
		zap.String("serviceID", service.ID), zap.String("imageID", image.ID))
	return image, nil
}

func (s *DefaultCatalogService) GetServiceImages(serviceID string) ([]models.ServiceImage, error) {
	service, err := s.Services.GetByID(serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, utils.NewNotFoundError("service %s not found", serviceID)
	}
	return s.Images.ListByService(service.ID)
}

// DeleteServiceImage detaches the image and removes the stored asset. The
// asset removal is best-effort.
func (s *DefaultCatalogService) DeleteServiceImage(ctx context.Context, actor *models.User, roles models.RoleSet, serviceID, imageID string) error {
	service, err := s.Services.GetByID(serviceID)
	if err != nil {
		return err
	}
	if service == nil {
		return utils.NewNotFoundError("service %s not found", serviceID)
	}
	if service.UserID != actor.ID && !roles.Admin {
		return utils.NewForbiddenError("you do not own this service")
	}

	image, err := s.Images.GetByID(imageID)
	if err != nil {
		return err
	}
	if image == nil || image.ServiceID != service.ID {
		return utils.NewNotFoundError("image %s not found on service %s", imageID, serviceID)
	}

	if err := s.Images.Delete(image.ID); err != nil {
		return err
	}
	s.destroyAsset(ctx, image.PublicID)
	return nil
}

func (s *DefaultCatalogService) destroyAsset(ctx context.Context, publicID string) {
	if publicID == "" || s.Cld == nil {
		return
	}
	if _, err := s.Cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		utils.GetLogger().Warn("Failed to delete Cloudinary asset",
			zap.String("publicID", publicID), zap.Error(err))
	}
}
