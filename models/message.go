package models

import "time"

// Message types.
const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
)

// Message is a direct message between two users, optionally scoped to a
// contract thread.
type Message struct {
	ID              string    `bson:"id" json:"id"`
	ContractID      string    `bson:"contract_id,omitempty" json:"contract_id,omitempty"`
	SenderID        string    `bson:"sender_id" json:"sender_id"`
	ReceiverID      string    `bson:"receiver_id" json:"receiver_id"`
	Subject         string    `bson:"subject,omitempty" json:"subject,omitempty"`
	Content         string    `bson:"content" json:"content"`
	MessageType     string    `bson:"message_type" json:"message_type"`
	IsRead          bool      `bson:"is_read" json:"is_read"`
	ParentMessageID string    `bson:"parent_message_id,omitempty" json:"parent_message_id,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
