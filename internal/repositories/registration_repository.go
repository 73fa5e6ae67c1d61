package repositories

import (
	"database/sql"
	"fmt"

	"certback/internal/models"
)

// RegistrationRepository — единственная транзакция на регистрацию:
// upsert пользователя + две верификации + два письма в outbox.
// При любой ошибке откатываемся целиком — частичных строк не остаётся.
type RegistrationRepository interface {
	Register(user *models.User, verifications []*models.Verification, outbox []*models.OutboxMessage) (*models.User, error)
}

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Register(user *models.User, verifications []*models.Verification, outbox []*models.OutboxMessage) (*models.User, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("registration begin: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO users (name, email, whatsapp, privacy_consent_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email) DO UPDATE
			SET name=EXCLUDED.name, whatsapp=EXCLUDED.whatsapp, updated_at=NOW()
		RETURNING id, privacy_consent_at, created_at, updated_at
	`
	if err := tx.QueryRow(upsert, user.Name, user.Email, user.WhatsApp).
		Scan(&user.ID, &user.PrivacyConsentAt, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, fmt.Errorf("registration upsert user: %w", err)
	}

	const insVerif = `
		INSERT INTO verifications (user_id, type, token_or_code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	for _, v := range verifications {
		v.UserID = user.ID
		if err := tx.QueryRow(insVerif, v.UserID, v.Type, v.TokenOrCode, v.ExpiresAt).
			Scan(&v.ID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("registration insert verification: %w", err)
		}
	}

	const insOutbox = `
		INSERT INTO outbox_messages (channel, recipient, subject, template, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	for _, m := range outbox {
		if err := tx.QueryRow(insOutbox, m.Channel, m.Recipient, m.Subject, m.Template, m.Body).
			Scan(&m.ID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("registration insert outbox: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("registration commit: %w", err)
	}
	return user, nil
}
