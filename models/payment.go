package models

import "time"

// PaymentStatus is the gateway-facing state of a payment.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentAuthorized        PaymentStatus = "authorized"
	PaymentCaptured          PaymentStatus = "captured"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentFailed            PaymentStatus = "failed"
)

// PayoutStatus is the settlement-facing state of the mentor's share.
type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutHeld      PayoutStatus = "held"
	PayoutReleased  PayoutStatus = "released"
	PayoutRequested PayoutStatus = "requested"
	PayoutFrozen    PayoutStatus = "frozen"
	PayoutPaid      PayoutStatus = "paid"
	PayoutDenied    PayoutStatus = "denied"
)

// Payment records the money side of one session. Amounts are integer
// cents. After capture, CommissionCents + PayoutCents == GrossCents holds
// at all times; the commission rate is stamped here at capture time so a
// later rate change never retroactively alters an existing payment.
type Payment struct {
	ID        string `bson:"id" json:"id"`
	SessionID string `bson:"session_id" json:"sessionId"`
	MenteeID  string `bson:"mentee_id" json:"menteeId"`
	MentorID  string `bson:"mentor_id" json:"mentorId"`

	GrossCents      int64   `bson:"gross_cents" json:"grossCents"`
	CommissionCents int64   `bson:"commission_cents" json:"commissionCents"`
	PayoutCents     int64   `bson:"payout_cents" json:"payoutCents"`
	CommissionRate  float64 `bson:"commission_rate" json:"commissionRate"`
	RefundedCents   int64   `bson:"refunded_cents" json:"refundedCents"`
	Currency        string  `bson:"currency" json:"currency"`

	IntentID      string `bson:"intent_id,omitempty" json:"intentId,omitempty"`
	TransactionID string `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`

	Status       PaymentStatus `bson:"status" json:"status"`
	PayoutStatus PayoutStatus  `bson:"payout_status" json:"payoutStatus"`

	// When the hold period elapses and the payout becomes releasable,
	// absent an open dispute.
	HoldReleaseAt *time.Time `bson:"hold_release_at,omitempty" json:"holdReleaseAt,omitempty"`
	PaidOutAt     *time.Time `bson:"paid_out_at,omitempty" json:"paidOutAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// SplitAmount divides gross cents at the given commission rate. The payout
// gets the remainder so the two parts always sum back to gross.
func SplitAmount(grossCents int64, rate float64) (commission, payout int64) {
	commission = int64(float64(grossCents)*rate + 0.5)
	if commission > grossCents {
		commission = grossCents
	}
	return commission, grossCents - commission
}
