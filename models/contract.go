package models

import "time"

// Contract statuses.
const (
	ContractStatusPendingAcceptance      = "pending_acceptance"
	ContractStatusPendingClientAgreement = "pending_client_agreement"
	ContractStatusAccepted               = "accepted"
	ContractStatusInProgress             = "in_progress"
	ContractStatusCompleted              = "completed"
	ContractStatusCancelled              = "cancelled"
	ContractStatusDisputed               = "disputed"
)

// ContractStatuses lists every status the schema accepts.
var ContractStatuses = []string{
	ContractStatusPendingAcceptance,
	ContractStatusPendingClientAgreement,
	ContractStatusAccepted,
	ContractStatusInProgress,
	ContractStatusCompleted,
	ContractStatusCancelled,
	ContractStatusDisputed,
}

// IsValidContractStatus reports whether s is a schema-accepted status.
func IsValidContractStatus(s string) bool {
	for _, v := range ContractStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminalContractStatus reports whether no further engine transition may
// leave s.
func IsTerminalContractStatus(s string) bool {
	return s == ContractStatusCompleted || s == ContractStatusCancelled
}

// Contract is an agreement between a client and a provider for one service.
// ServiceID, ClientID and ProviderID are set once at creation and never
// reassigned. Version backs the optimistic check-and-set on updates.
type Contract struct {
	ID                 string     `bson:"id" json:"id"`
	ServiceID          string     `bson:"service_id" json:"service_id"`
	ClientID           string     `bson:"client_id" json:"client_id"`
	ProviderID         string     `bson:"provider_id" json:"provider_id"`
	Title              string     `bson:"title" json:"title"`
	Description        string     `bson:"description" json:"description"`
	ProposedPrice      float64    `bson:"proposed_price" json:"proposed_price"`
	AgreedPrice        *float64   `bson:"agreed_price,omitempty" json:"agreed_price"`
	EstimatedDuration  string     `bson:"estimated_duration,omitempty" json:"estimated_duration,omitempty"`
	Location           string     `bson:"location" json:"location"`
	Status             string     `bson:"status" json:"status"`
	StartDate          *time.Time `bson:"start_date,omitempty" json:"start_date"`
	EndDate            *time.Time `bson:"end_date,omitempty" json:"end_date"`
	CompletionDate     *time.Time `bson:"completion_date,omitempty" json:"completion_date"`
	ClientNotes        string     `bson:"client_notes,omitempty" json:"client_notes,omitempty"`
	ProviderNotes      string     `bson:"provider_notes,omitempty" json:"provider_notes,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	Version            int64      `bson:"version" json:"-"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}

// ContractFilter narrows contract listings. ParticipantID matches either side
// of the contract.
type ContractFilter struct {
	ClientID      string
	ProviderID    string
	ParticipantID string
	Status        string
}
