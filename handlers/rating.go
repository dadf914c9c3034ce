package handlers

import (
	"net/http"

	"servimarket/services/rating"
	"servimarket/utils"

	"github.com/gin-gonic/gin"
)

// CreateRatingHandler handles POST /api/ratings.
func (h *HandlerBundle) CreateRatingHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req rating.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid rating payload: %v", err))
		return
	}
	created, err := h.RatingService.CreateRating(u, roles, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetRatingHandler handles GET /api/ratings/:id.
func (h *HandlerBundle) GetRatingHandler(c *gin.Context) {
	found, err := h.RatingService.GetRating(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListServiceRatingsHandler handles GET /api/services/:id/ratings.
func (h *HandlerBundle) ListServiceRatingsHandler(c *gin.Context) {
	ratings, err := h.RatingService.GetRatingsByService(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// ListUserRatingsHandler handles GET /api/users/:id/ratings.
func (h *HandlerBundle) ListUserRatingsHandler(c *gin.Context) {
	ratings, err := h.RatingService.GetRatingsByUser(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// UpdateRatingHandler handles PUT /api/ratings/:id.
func (h *HandlerBundle) UpdateRatingHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req rating.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid rating payload: %v", err))
		return
	}
	updated, err := h.RatingService.UpdateRating(u, roles, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRatingHandler handles DELETE /api/ratings/:id.
func (h *HandlerBundle) DeleteRatingHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.RatingService.DeleteRating(u, roles, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted"})
}
