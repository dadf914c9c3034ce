package user

import (
	"fmt"

	"servimarket/models"
	"servimarket/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// GetUserByID retrieves a user by ID.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	usr, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, utils.NewNotFoundError("user %s not found", userID)
	}
	return usr, nil
}

// GetUserByEmail retrieves a user by email.
func (s *DefaultUserService) GetUserByEmail(email string) (*models.User, error) {
	usr, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, utils.NewNotFoundError("user with email %s not found", email)
	}
	return usr, nil
}

// UpdateUser applies a partial profile update. Only the user themselves or an
// admin may update; user_type and status changes beyond the self-service set
// are admin-only.
func (s *DefaultUserService) UpdateUser(actor *models.User, roles models.RoleSet, userID string, req UpdateRequest) (*models.User, error) {
	logger := utils.GetLogger()

	if actor.ID != userID && !roles.Admin {
		return nil, utils.NewForbiddenError("you may not update this user")
	}

	target, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updateFields := bson.M{}
	if req.Name != "" {
		updateFields["name"] = req.Name
	}
	if req.Phone != "" {
		updateFields["phone"] = req.Phone
	}
	if req.Address != "" {
		updateFields["address"] = req.Address
	}
	if req.Bio != "" {
		updateFields["bio"] = req.Bio
	}
	if req.ProfilePicture != "" {
		updateFields["profile_picture"] = req.ProfilePicture
	}
	if req.UserType != "" && req.UserType != target.UserType {
		if req.UserType == models.UserTypeAdmin && !roles.Admin {
			return nil, utils.NewForbiddenError("only admins may grant the admin type")
		}
		if req.UserType != models.UserTypeAdmin && !validUserType(req.UserType) {
			return nil, utils.NewValidationError("invalid user_type %q", req.UserType)
		}
		updateFields["user_type"] = req.UserType
	}
	if req.Status != "" && req.Status != target.Status {
		if !roles.Admin {
			return nil, utils.NewForbiddenError("only admins may change account status")
		}
		switch req.Status {
		case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
		default:
			return nil, utils.NewValidationError("invalid status %q", req.Status)
		}
		updateFields["status"] = req.Status
	}

	if len(updateFields) == 0 {
		return nil, utils.NewValidationError("no updatable fields provided")
	}

	if err := s.Repo.UpdateFields(userID, updateFields); err != nil {
		logger.Error("Failed to update user", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUserByID(userID)
}

// UpdatePassword verifies the current password and stores a new hash. The
// current token is invalidated so the user must sign in again.
func (s *DefaultUserService) UpdatePassword(userID, currentPassword, newPassword string) error {
	usr, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(currentPassword)); err != nil {
		return utils.NewUnauthorizedError("current password is incorrect")
	}
	if len(newPassword) < 6 {
		return utils.NewValidationError("new password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.Repo.UpdateFields(userID, bson.M{"password_hash": string(hash), "token_hash": ""}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.dropAuthCache(userID)
	return nil
}

// DeleteUser removes an account. Self or admin only.
func (s *DefaultUserService) DeleteUser(actor *models.User, roles models.RoleSet, userID string) error {
	if actor.ID != userID && !roles.Admin {
		return utils.NewForbiddenError("you may not delete this user")
	}
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}
	if err := s.Repo.Delete(userID); err != nil {
		return err
	}
	s.dropAuthCache(userID)
	return nil
}

// GetAllUsers retrieves all users (admin listing).
func (s *DefaultUserService) GetAllUsers() ([]models.User, error) {
	return s.Repo.GetAll()
}
