package handlers

import (
	"net/http"

	"servimarket/middleware"
	"servimarket/models"
	"servimarket/services/user"
	"servimarket/utils"

	"github.com/gin-gonic/gin"
)

// actor pulls the authenticated user and roles placed by AuthMiddleware.
// Routes behind the middleware always have them; a miss means a wiring bug.
func actor(c *gin.Context) (*models.User, models.RoleSet, bool) {
	u, ok := middleware.UserFromContext(c)
	if !ok {
		utils.RespondError(c, utils.NewUnauthorizedError("Insufficient authorization"))
		return nil, models.RoleSet{}, false
	}
	roles, ok := middleware.RolesFromContext(c)
	if !ok {
		utils.RespondError(c, utils.NewUnauthorizedError("Insufficient authorization"))
		return nil, models.RoleSet{}, false
	}
	return u, roles, true
}

// RegisterHandler handles POST /api/auth/register.
func (h *HandlerBundle) RegisterHandler(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid registration payload: %v", err))
		return
	}
	resp, err := h.UserService.Register(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *HandlerBundle) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("email and password are required"))
		return
	}
	resp, err := h.UserService.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler handles POST /api/auth/logout.
func (h *HandlerBundle) LogoutHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	if err := h.UserService.Logout(u.ID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfileHandler handles GET /api/users/me.
func (h *HandlerBundle) GetProfileHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetUserHandler handles GET /api/users/:id. Other users see the public
// profile only.
func (h *HandlerBundle) GetUserHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	target, err := h.UserService.GetUserByID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if target.ID == u.ID || roles.Admin {
		c.JSON(http.StatusOK, target)
		return
	}
	c.JSON(http.StatusOK, target.PublicProfile())
}

// UpdateUserHandler handles PUT /api/users/:id.
func (h *HandlerBundle) UpdateUserHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	var req user.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid update payload: %v", err))
		return
	}
	updated, err := h.UserService.UpdateUser(u, roles, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdatePasswordHandler handles PUT /api/users/me/password.
func (h *HandlerBundle) UpdatePasswordHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("current and new password are required"))
		return
	}
	if err := h.UserService.UpdatePassword(u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated, please sign in again"})
}

// DeleteUserHandler handles DELETE /api/users/:id.
func (h *HandlerBundle) DeleteUserHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.UserService.DeleteUser(u, roles, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListUsersHandler handles GET /api/users (admin).
func (h *HandlerBundle) ListUsersHandler(c *gin.Context) {
	users, err := h.UserService.GetAllUsers()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
