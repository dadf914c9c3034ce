package models

import "time"

// ServiceImage is a Cloudinary-backed attachment on a service listing.
type ServiceImage struct {
	ID           string    `bson:"id" json:"id"`
	ServiceID    string    `bson:"service_id" json:"service_id"`
	ImageURL     string    `bson:"image_url" json:"image_url"`
	PublicID     string    `bson:"public_id" json:"-"`
	Caption      string    `bson:"caption,omitempty" json:"caption,omitempty"`
	IsPrimary    bool      `bson:"is_primary" json:"is_primary"`
	DisplayOrder int       `bson:"display_order" json:"display_order"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
