package model

import "time"

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment is a money movement for an athlete. Reversals carry a negative
// amount and point at the payment they cancel.
type Payment struct {
	ID           string    `json:"id"`
	OrgID        *string   `json:"org_id,omitempty"`
	AthleteID    string    `json:"athlete_id"`
	Amount       float64   `json:"amount"`
	MethodText   string    `json:"method_text"`
	Lessons      int       `json:"lessons"`
	Status       string    `json:"status"`
	IsReversal   bool      `json:"is_reversal"`
	RefPaymentID *string   `json:"ref_payment_id,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedBy    *string   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaymentFilter selects whose payments are visible.
type PaymentFilter struct {
	OrgID     string
	AthleteID string
	CreatedBy string
}

// PaymentStats aggregates non-reversal payments in a period.
type PaymentStats struct {
	Revenue float64 `json:"revenue"`
	Lessons int     `json:"lessons"`
	Count   int     `json:"count"`
}
