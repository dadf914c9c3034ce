package handlers

import (
	"net/http"

	"servimarket/services/contract"
	"servimarket/utils"

	"github.com/gin-gonic/gin"
)

// CreateContractHandler handles POST /api/contracts.
func (h *HandlerBundle) CreateContractHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req contract.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid contract payload: %v", err))
		return
	}
	created, err := h.ContractService.CreateContract(u, roles, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListContractsHandler handles GET /api/contracts.
func (h *HandlerBundle) ListContractsHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	query := contract.ListQuery{
		Role:   c.Query("role"),
		Status: c.Query("status"),
	}
	contracts, err := h.ContractService.GetContracts(u, roles, query)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// GetContractHandler handles GET /api/contracts/:id.
func (h *HandlerBundle) GetContractHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	found, err := h.ContractService.GetContractByID(u, roles, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// UpdateContractStatusHandler handles PUT /api/contracts/:id/status.
func (h *HandlerBundle) UpdateContractStatusHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req contract.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid status payload: %v", err))
		return
	}
	updated, err := h.ContractService.UpdateStatus(u, roles, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// NegotiatePriceHandler handles PUT /api/contracts/:id/negotiate-price.
func (h *HandlerBundle) NegotiatePriceHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req contract.NegotiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("new_price is required"))
		return
	}
	updated, err := h.ContractService.NegotiatePrice(u, roles, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteContractHandler handles DELETE /api/contracts/:id (admin).
func (h *HandlerBundle) DeleteContractHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.ContractService.DeleteContract(u, roles, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}
