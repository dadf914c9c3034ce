package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	userRepo "servimarket/database/repository/user"
	"servimarket/models"
	"servimarket/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserKey  = "authUser"
	ContextRolesKey = "authRoles"
)

// AuthMiddleware authenticates the request from a Bearer JWT. The token hash
// is checked against Redis first and falls back to the stored user record on
// a miss. On success the user and their resolved roles are placed on the
// request context.
func AuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		logger := utils.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Insufficient authorization"})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Insufficient authorization"})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + userID

		authCache := utils.GetAuthCacheClient()
		cacheEnabled := authCache != nil

		hashVerified := false
		if cacheEnabled {
			cachedHash, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil {
				if cachedHash != computedHash {
					c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Token mismatch"})
					return
				}
				_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
				hashVerified = true
			} else if err != redis.Nil {
				logger.Warn("Auth cache lookup failed, falling back to DB", zap.Error(err))
			}
		}

		user, err := users.GetByID(userID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Authentication error"})
			return
		}

		if !hashVerified {
			if user.TokenHash == "" || user.TokenHash != computedHash {
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Token mismatch"})
				return
			}
			if cacheEnabled {
				_ = authCache.Set(ctx, cacheKey, computedHash, time.Hour).Err()
			}
		}

		if user.Status == models.UserStatusSuspended {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Message: "Account suspended"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextRolesKey, models.ResolveRoles(user))
		c.Next()
	}
}

// RequireAdmin gates a route group to admin accounts. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := RolesFromContext(c)
		if !ok || !roles.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Message: "Administrator access required"})
			return
		}
		c.Next()
	}
}

// UserFromContext returns the authenticated user set by AuthMiddleware.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// RolesFromContext returns the resolved role set set by AuthMiddleware.
func RolesFromContext(c *gin.Context) (models.RoleSet, bool) {
	val, exists := c.Get(ContextRolesKey)
	if !exists {
		return models.RoleSet{}, false
	}
	roles, ok := val.(models.RoleSet)
	return roles, ok
}
