package models

import "time"

// AccessCode — храним только bcrypt-хэш и подсказку (последние 4 символа).
// Открытый текст кода нигде не сохраняется.
type AccessCode struct {
	ID         int64      `json:"id"`
	UserID     int        `json:"user_id"`
	CodeHash   string     `json:"-"`
	CodeHint   string     `json:"code_hint"`
	Active     bool       `json:"active"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
