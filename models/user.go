// models/user.go
package models

import "time"

// User types.
const (
	UserTypeClient   = "client"
	UserTypeProvider = "provider"
	UserTypeBoth     = "both"
	UserTypeAdmin    = "admin"
)

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User represents a platform user. RatingAverage and RatingCount are derived
// fields owned by the rating aggregator.
type User struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password_hash" json:"-"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty"`
	Bio            string    `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePicture string    `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	UserType       string    `bson:"user_type" json:"user_type"`
	Status         string    `bson:"status" json:"status"`
	RatingAverage  float64   `bson:"rating_average" json:"rating_average"`
	RatingCount    int       `bson:"rating_count" json:"rating_count"`
	TokenHash      string    `bson:"token_hash,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicProfile strips fields that other users should not see.
func (u *User) PublicProfile() map[string]any {
	return map[string]any{
		"id":              u.ID,
		"name":            u.Name,
		"bio":             u.Bio,
		"profile_picture": u.ProfilePicture,
		"user_type":       u.UserType,
		"rating_average":  u.RatingAverage,
		"rating_count":    u.RatingCount,
		"created_at":      u.CreatedAt,
	}
}
