package models

import "time"

// DisputeStatus is the lifecycle state of a dispute.
type DisputeStatus string

const (
	DisputeOpen        DisputeStatus = "open"
	DisputeUnderReview DisputeStatus = "under_review"
	DisputeResolved    DisputeStatus = "resolved"
)

// Dispute is raised by a mentee against a completed session within the
// dispute window. While one is open or under review, the payout of the
// associated payment stays frozen regardless of elapsed hold time.
type Dispute struct {
	ID            string        `bson:"id" json:"id"`
	SessionID     string        `bson:"session_id" json:"sessionId"`
	PaymentID     string        `bson:"payment_id" json:"paymentId"`
	ComplainantID string        `bson:"complainant_id" json:"complainantId"`
	RespondentID  string        `bson:"respondent_id" json:"respondentId"`
	Reason        string        `bson:"reason" json:"reason"`
	Status        DisputeStatus `bson:"status" json:"status"`

	// Resolution outcome: refund percentage granted to the complainant,
	// 0 when the dispute is resolved in the mentor's favor.
	RefundPercent int        `bson:"refund_percent" json:"refundPercent"`
	ResolvedBy    string     `bson:"resolved_by,omitempty" json:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Active reports whether the dispute still suspends payout release.
func (d Dispute) Active() bool {
	return d.Status == DisputeOpen || d.Status == DisputeUnderReview
}
