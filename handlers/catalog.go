package handlers

import (
	"net/http"
	"strconv"

	"servimarket/models"
	"servimarket/services/catalog"
	"servimarket/utils"

	"github.com/gin-gonic/gin"
)

// --- Categories ---

// CreateCategoryHandler handles POST /api/categories (admin).
func (h *HandlerBundle) CreateCategoryHandler(c *gin.Context) {
	_, roles, ok := actor(c)
	if !ok {
		return
	}
	var req catalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid category payload: %v", err))
		return
	}
	created, err := h.CatalogService.CreateCategory(roles, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListCategoriesHandler handles GET /api/categories.
func (h *HandlerBundle) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.CatalogService.GetCategories()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryHandler handles GET /api/categories/:id.
func (h *HandlerBundle) GetCategoryHandler(c *gin.Context) {
	category, err := h.CatalogService.GetCategoryByID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategoryHandler handles PUT /api/categories/:id (admin).
func (h *HandlerBundle) UpdateCategoryHandler(c *gin.Context) {
	_, roles, ok := actor(c)
	if !ok {
		return
	}
	var req catalog.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid category payload: %v", err))
		return
	}
	updated, err := h.CatalogService.UpdateCategory(roles, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCategoryHandler handles DELETE /api/categories/:id (admin).
func (h *HandlerBundle) DeleteCategoryHandler(c *gin.Context) {
	_, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteCategory(roles, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// --- Services ---

// CreateServiceHandler handles POST /api/services.
func (h *HandlerBundle) CreateServiceHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req catalog.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid service payload: %v", err))
		return
	}
	created, err := h.CatalogService.CreateService(u, roles, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListServicesHandler handles GET /api/services with filter query params.
func (h *HandlerBundle) ListServicesHandler(c *gin.Context) {
	filter := models.ServiceFilter{
		CategoryID: c.Query("category_id"),
		UserID:     c.Query("user_id"),
		Status:     c.DefaultQuery("status", models.ServiceStatusActive),
		Search:     c.Query("search"),
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = f
		}
	}
	services, err := h.CatalogService.GetServices(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetServiceHandler handles GET /api/services/:id.
func (h *HandlerBundle) GetServiceHandler(c *gin.Context) {
	service, err := h.CatalogService.GetServiceByID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateServiceHandler handles PUT /api/services/:id.
func (h *HandlerBundle) UpdateServiceHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req catalog.ServiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid service payload: %v", err))
		return
	}
	updated, err := h.CatalogService.UpdateService(u, roles, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteServiceHandler handles DELETE /api/services/:id.
func (h *HandlerBundle) DeleteServiceHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteService(c.Request.Context(), u, roles, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}

// --- Favorites ---

// AddFavoriteHandler handles POST /api/favorites.
func (h *HandlerBundle) AddFavoriteHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		ServiceID string `json:"service_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("service_id is required"))
		return
	}
	favorite, err := h.CatalogService.AddFavorite(u, req.ServiceID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

// ListFavoritesHandler handles GET /api/favorites.
func (h *HandlerBundle) ListFavoritesHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	entries, err := h.CatalogService.GetFavorites(u)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RemoveFavoriteHandler handles DELETE /api/favorites/:serviceId.
func (h *HandlerBundle) RemoveFavoriteHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	if err := h.CatalogService.RemoveFavorite(u, c.Param("serviceId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

// --- Service images ---

// UploadServiceImageHandler handles POST /api/services/:id/images
// (multipart form: image, caption, is_primary, display_order).
func (h *HandlerBundle) UploadServiceImageHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("image file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("could not read uploaded file"))
		return
	}
	defer file.Close()

	req := catalog.ImageRequest{
		Caption:   c.PostForm("caption"),
		IsPrimary: c.PostForm("is_primary") == "true",
	}
	if v := c.PostForm("display_order"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.DisplayOrder = n
		}
	}

	image, err := h.CatalogService.AddServiceImage(c.Request.Context(), u, roles, c.Param("id"), file, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

// ListServiceImagesHandler handles GET /api/services/:id/images.
func (h *HandlerBundle) ListServiceImagesHandler(c *gin.Context) {
	images, err := h.CatalogService.GetServiceImages(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// DeleteServiceImageHandler handles DELETE /api/services/:id/images/:imageId.
func (h *HandlerBundle) DeleteServiceImageHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteServiceImage(c.Request.Context(), u, roles, c.Param("id"), c.Param("imageId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}
