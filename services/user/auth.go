package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"servimarket/config"
	"servimarket/models"
	"servimarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func tokenTTL() time.Duration {
	hours := config.AppConfig.TokenTTLHours
	if hours <= 0 {
		hours = 72
	}
	return time.Duration(hours) * time.Hour
}

func validUserType(t string) bool {
	switch t {
	case models.UserTypeClient, models.UserTypeProvider, models.UserTypeBoth:
		return true
	}
	return false
}

// Register creates a new account and signs the caller in.
func (s *DefaultUserService) Register(req RegisterRequest) (*AuthResponse, error) {
	logger := utils.GetLogger()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.UserType == "" {
		req.UserType = models.UserTypeBoth
	}
	// Admin accounts are provisioned out of band, never self-registered.
	if !validUserType(req.UserType) {
		return nil, utils.NewValidationError("invalid user_type %q", req.UserType)
	}

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("an account with email %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Address:      req.Address,
		Bio:          req.Bio,
		UserType:     req.UserType,
		Status:       models.UserStatusActive,
	}
	if err := s.Repo.Create(usr); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp, err := s.issueToken(usr)
	if err != nil {
		return nil, err
	}
	logger.Info("User registered", zap.String("userID", usr.ID), zap.String("userType", usr.UserType))
	return resp, nil
}

// Authenticate verifies credentials and issues a fresh token.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResponse, error) {
	usr, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, utils.NewUnauthorizedError("invalid email or password")
	}
	if usr.Status == models.UserStatusSuspended {
		return nil, utils.NewForbiddenError("account is suspended")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewUnauthorizedError("invalid email or password")
	}
	return s.issueToken(usr)
}

// Logout invalidates the user's current token.
func (s *DefaultUserService) Logout(userID string) error {
	if err := s.Repo.SetTokenHash(userID, ""); err != nil {
		return err
	}
	s.dropAuthCache(userID)
	return nil
}

// issueToken mints a JWT, persists its hash on the user and caches it for the
// auth middleware.
func (s *DefaultUserService) issueToken(usr *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(usr.ID, usr.Email, tokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	tokenHash := utils.HashToken(token)
	if err := s.Repo.SetTokenHash(usr.ID, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to store token hash: %w", err)
	}
	usr.TokenHash = tokenHash

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if cache := utils.GetAuthCacheClient(); cache != nil {
		_ = cache.Set(ctx, utils.AuthCachePrefix+usr.ID, tokenHash, time.Hour).Err()
	}

	return &AuthResponse{User: usr, Token: token}, nil
}

func (s *DefaultUserService) dropAuthCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if cache := utils.GetAuthCacheClient(); cache != nil {
		_ = cache.Del(ctx, utils.AuthCachePrefix+userID).Err()
	}
}
