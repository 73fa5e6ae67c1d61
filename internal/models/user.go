package models

import "time"

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`

	// метки верификации — выставляются один раз, назад не сбрасываются
	EmailVerifiedAt    *time.Time `json:"email_verified_at,omitempty"`
	WhatsAppVerifiedAt *time.Time `json:"whatsapp_verified_at,omitempty"`

	PrivacyConsentAt time.Time `json:"privacy_consent_at"`

	// явный указатель на действующий код доступа (вместо "последней активной строки")
	CurrentAccessCodeID *int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Verified — обе верификации пройдены (условие для checkout).
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil && u.WhatsAppVerifiedAt != nil
}
