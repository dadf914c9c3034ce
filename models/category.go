package models

import "time"

// Category statuses.
const (
	CategoryStatusActive        = "active"
	CategoryStatusInactive      = "inactive"
	CategoryStatusPendingReview = "pending_review"
)

// Category is an admin-managed service taxonomy entry.
type Category struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Icon        string    `bson:"icon,omitempty" json:"icon,omitempty"`
	Color       string    `bson:"color,omitempty" json:"color,omitempty"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
