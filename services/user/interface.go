package user

import (
	userRepo "servimarket/database/repository/user"
	"servimarket/models"
)

// UserService defines account and profile operations.
type UserService interface {
	// Registration / authentication
	Register(req RegisterRequest) (*AuthResponse, error)
	Authenticate(email, password string) (*AuthResponse, error)
	Logout(userID string) error

	// Profile management
	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(actor *models.User, roles models.RoleSet, userID string, req UpdateRequest) (*models.User, error)
	UpdatePassword(userID, currentPassword, newPassword string) error
	DeleteUser(actor *models.User, roles models.RoleSet, userID string) error

	// Admin / utility
	GetAllUsers() ([]models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Bio      string `json:"bio"`
	UserType string `json:"user_type"`
}

// UpdateRequest carries a partial profile update.
type UpdateRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	UserType       string `json:"user_type"`
	Status         string `json:"status"`
}

// AuthResponse contains the authenticated user and its bearer token.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}
