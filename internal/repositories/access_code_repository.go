package repositories

import (
	"database/sql"
	"fmt"

	"certback/internal/models"
)

type AccessCodeRepository interface {
	// Issue — вставка кода, перевод указателя users.current_access_code_id
	// и отметка code_issued_at на платеже — одной транзакцией.
	Issue(code *models.AccessCode, paymentID string) error
	// CurrentByEmail — действующий код через явный указатель пользователя.
	CurrentByEmail(email string) (*models.AccessCode, error)
	TouchLastUsed(id int64) error
	// UpdateHash — ротация кода на месте: issued_at/expires_at не трогаем.
	UpdateHash(id int64, codeHash, codeHint string) error
}

type accessCodeRepository struct {
	DB *sql.DB
}

func NewAccessCodeRepository(db *sql.DB) AccessCodeRepository {
	return &accessCodeRepository{DB: db}
}

func (r *accessCodeRepository) Issue(code *models.AccessCode, paymentID string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("access code issue begin: %w", err)
	}
	defer tx.Rollback()

	const ins = `
		INSERT INTO access_codes (user_id, code_hash, code_hint, active, issued_at, expires_at)
		VALUES ($1, $2, $3, TRUE, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRow(ins, code.UserID, code.CodeHash, code.CodeHint, code.IssuedAt, code.ExpiresAt).
		Scan(&code.ID); err != nil {
		return fmt.Errorf("access code insert: %w", err)
	}
	code.Active = true

	if _, err := tx.Exec(`
		UPDATE users SET current_access_code_id=$1, updated_at=NOW() WHERE id=$2
	`, code.ID, code.UserID); err != nil {
		return fmt.Errorf("access code set current: %w", err)
	}

	if paymentID != "" {
		if _, err := tx.Exec(`
			UPDATE payments SET code_issued_at=NOW() WHERE id=$1 AND code_issued_at IS NULL
		`, paymentID); err != nil {
			return fmt.Errorf("access code mark payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("access code issue commit: %w", err)
	}
	return nil
}

func (r *accessCodeRepository) CurrentByEmail(email string) (*models.AccessCode, error) {
	const q = `
		SELECT ac.id, ac.user_id, ac.code_hash, ac.code_hint, ac.active,
			ac.issued_at, ac.expires_at, ac.last_used_at
		FROM access_codes ac
		JOIN users u ON u.current_access_code_id = ac.id
		WHERE u.email=$1 AND ac.active=TRUE
	`
	var ac models.AccessCode
	var lastUsedAt sql.NullTime
	err := r.DB.QueryRow(q, email).Scan(
		&ac.ID, &ac.UserID, &ac.CodeHash, &ac.CodeHint, &ac.Active,
		&ac.IssuedAt, &ac.ExpiresAt, &lastUsedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("access code current: %w", err)
	}
	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		ac.LastUsedAt = &t
	}
	return &ac, nil
}

func (r *accessCodeRepository) TouchLastUsed(id int64) error {
	_, err := r.DB.Exec(`UPDATE access_codes SET last_used_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *accessCodeRepository) UpdateHash(id int64, codeHash, codeHint string) error {
	_, err := r.DB.Exec(`UPDATE access_codes SET code_hash=$1, code_hint=$2 WHERE id=$3`, codeHash, codeHint, id)
	return err
}
