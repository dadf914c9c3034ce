package models

import "time"

// Notification types.
const (
	NotificationContractProposal     = "contract_proposal"
	NotificationContractUpdate       = "contract_update"
	NotificationContractAccepted     = "contract_accepted"
	NotificationContractNegotiation  = "contract_negotiation"
	NotificationContractCompletion   = "contract_completion"
	NotificationContractCancellation = "contract_cancellation"
	NotificationServiceUpdate        = "service_update"
	NotificationUserMessage          = "user_message"
	NotificationSystemAlert          = "system_alert"
)

// Notification is a stored event for a user, created only by the internal
// emitter and read over the REST inbox.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	Type      string    `bson:"type" json:"type"`
	RelatedID string    `bson:"related_id,omitempty" json:"related_id,omitempty"`
	IsRead    bool      `bson:"is_read" json:"is_read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
