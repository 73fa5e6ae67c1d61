package models

import "time"

const (
	VerificationEmail    = "email"
	VerificationWhatsApp = "whatsapp"
)

// Verification — одна запись на каждую отправку токена/кода.
// После verified_at запись больше не используется (one-time use).
type Verification struct {
	ID          int64      `json:"id"`
	UserID      int        `json:"user_id"`
	Type        string     `json:"type"` // email | whatsapp
	TokenOrCode string     `json:"-"`
	ExpiresAt   time.Time  `json:"expires_at"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
