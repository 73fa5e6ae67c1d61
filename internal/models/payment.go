package models

import "time"

// Статусы платежа: pending -> captured (webhook) -> paid (ручное одобрение).
const (
	PaymentPending  = "pending"
	PaymentCaptured = "captured"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
)

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

type Payment struct {
	ID           string  `json:"id"` // uuid
	UserID       int     `json:"user_id"`
	Method       string  `json:"method"`
	Provider     string  `json:"provider"`
	ProviderRef  string  `json:"provider_ref,omitempty"`
	Status       string  `json:"status"`
	ReviewStatus string  `json:"review_status"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewerID  *string    `json:"reviewer_id,omitempty"`
	ReviewNotes *string    `json:"review_notes,omitempty"`

	// сага: approved без выданного кода видно по code_issued_at IS NULL
	CodeIssuedAt *time.Time `json:"code_issued_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
