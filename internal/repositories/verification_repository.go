package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"certback/internal/models"
)

type VerificationRepository interface {
	Create(v *models.Verification) error
	// Поиск действующей записи: неподтверждена, не истекла, точное совпадение.
	FindActiveEmailToken(token string) (*models.Verification, error)
	FindActiveWhatsAppCode(userID int, code string) (*models.Verification, error)
	// Confirm — verified_at на записи + метка на пользователе, одной транзакцией.
	Confirm(verificationID int64, userID int, verificationType string) error
	CountRecentSends(userID int, verificationType string, since time.Time) (int, error)
}

type verificationRepository struct {
	DB *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationRepository {
	return &verificationRepository{DB: db}
}

func (r *verificationRepository) Create(v *models.Verification) error {
	const q = `
		INSERT INTO verifications (user_id, type, token_or_code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, v.UserID, v.Type, v.TokenOrCode, v.ExpiresAt).
		Scan(&v.ID, &v.CreatedAt); err != nil {
		return fmt.Errorf("verification create: %w", err)
	}
	return nil
}

func scanVerification(row *sql.Row) (*models.Verification, error) {
	var v models.Verification
	var verifiedAt sql.NullTime
	err := row.Scan(&v.ID, &v.UserID, &v.Type, &v.TokenOrCode, &v.ExpiresAt, &verifiedAt, &v.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("verification scan: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		v.VerifiedAt = &t
	}
	return &v, nil
}

func (r *verificationRepository) FindActiveEmailToken(token string) (*models.Verification, error) {
	const q = `
		SELECT id, user_id, type, token_or_code, expires_at, verified_at, created_at
		FROM verifications
		WHERE type='email' AND token_or_code=$1 AND verified_at IS NULL AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanVerification(r.DB.QueryRow(q, token))
}

func (r *verificationRepository) FindActiveWhatsAppCode(userID int, code string) (*models.Verification, error) {
	const q = `
		SELECT id, user_id, type, token_or_code, expires_at, verified_at, created_at
		FROM verifications
		WHERE user_id=$1 AND type='whatsapp' AND token_or_code=$2
			AND verified_at IS NULL AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanVerification(r.DB.QueryRow(q, userID, code))
}

func (r *verificationRepository) Confirm(verificationID int64, userID int, verificationType string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("verification confirm begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE verifications SET verified_at=NOW()
		WHERE id=$1 AND verified_at IS NULL
	`, verificationID)
	if err != nil {
		return fmt.Errorf("verification confirm: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows // перехвачена параллельной верификацией
	}

	userColumn := "email_verified_at"
	if verificationType == models.VerificationWhatsApp {
		userColumn = "whatsapp_verified_at"
	}
	q := fmt.Sprintf(`
		UPDATE users
		SET %s=COALESCE(%s, NOW()), updated_at=NOW()
		WHERE id=$1
	`, userColumn, userColumn)
	if _, err := tx.Exec(q, userID); err != nil {
		return fmt.Errorf("verification confirm user: %w", err)
	}

	return tx.Commit()
}

// CountRecentSends — сколько отправок было в окне (для троттлинга resend).
func (r *verificationRepository) CountRecentSends(userID int, verificationType string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM verifications
		WHERE user_id=$1 AND type=$2 AND created_at >= $3
	`
	var c int
	if err := r.DB.QueryRow(q, userID, verificationType, since).Scan(&c); err != nil {
		return 0, fmt.Errorf("verification count recent: %w", err)
	}
	return c, nil
}
