package models

import "time"

// Service statuses.
const (
	ServiceStatusActive    = "active"
	ServiceStatusInactive  = "inactive"
	ServiceStatusReview    = "review"
	ServiceStatusSuspended = "suspended"
)

// Service price units.
const (
	PriceUnitPerHour    = "per_hour"
	PriceUnitPerProject = "per_project"
	PriceUnitPerItem    = "per_item"
	PriceUnitFixed      = "fixed"
)

// Service delivery types.
const (
	ServiceTypeOnline   = "online"
	ServiceTypeInPerson = "in_person"
	ServiceTypeHybrid   = "hybrid"
)

// Service is a listing owned by exactly one provider. RatingAverage and
// RatingCount are derived fields owned by the rating aggregator.
type Service struct {
	ID               string    `bson:"id" json:"id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	CategoryID       string    `bson:"category_id" json:"category_id"`
	Title            string    `bson:"title" json:"title"`
	Description      string    `bson:"description" json:"description"`
	Price            float64   `bson:"price" json:"price"`
	PriceUnit        string    `bson:"price_unit" json:"price_unit"`
	Location         string    `bson:"location" json:"location"`
	ServiceType      string    `bson:"service_type" json:"service_type"`
	DurationEstimate string    `bson:"duration_estimate,omitempty" json:"duration_estimate,omitempty"`
	Requirements     string    `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Status           string    `bson:"status" json:"status"`
	ViewsCount       int       `bson:"views_count" json:"views_count"`
	RatingAverage    float64   `bson:"rating_average" json:"rating_average"`
	RatingCount      int       `bson:"rating_count" json:"rating_count"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// ServiceFilter narrows service listings.
type ServiceFilter struct {
	CategoryID string
	UserID     string
	Status     string
	MinPrice   float64
	MaxPrice   float64
	Search     string
}
