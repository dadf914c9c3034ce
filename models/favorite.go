package models

import "time"

// Favorite is a user's saved reference to a service. (UserID, ServiceID) is
// unique.
type Favorite struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ServiceID string    `bson:"service_id" json:"service_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
