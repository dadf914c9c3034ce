package models

import "time"

// Roles a rating party held on the underlying contract.
const (
	RatingRoleClient   = "client"
	RatingRoleProvider = "provider"
)

// Rating is one party's review of the other on a completed contract.
// (ContractID, RaterID, RatedID) is unique: each party may rate the other at
// most once per contract. RaterRole and RatedRole are derived from contract
// membership at creation time, never user-supplied.
type Rating struct {
	ID          string    `bson:"id" json:"id"`
	ContractID  string    `bson:"contract_id" json:"contract_id"`
	ServiceID   string    `bson:"service_id" json:"service_id"`
	RaterID     string    `bson:"rater_id" json:"rater_id,omitempty"`
	RatedID     string    `bson:"rated_id" json:"rated_id"`
	RatingValue int       `bson:"rating_value" json:"rating_value"`
	Comment     string    `bson:"comment,omitempty" json:"comment,omitempty"`
	IsAnonymous bool      `bson:"is_anonymous" json:"is_anonymous"`
	RaterRole   string    `bson:"rater_role" json:"rater_role"`
	RatedRole   string    `bson:"rated_role" json:"rated_role"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Anonymized returns a copy safe for public listings: anonymous ratings do
// not reveal the rater.
func (r Rating) Anonymized() Rating {
	if r.IsAnonymous {
		r.RaterID = ""
	}
	return r
}
