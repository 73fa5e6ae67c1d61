package repositories

import (
	"database/sql"
	"fmt"

	"certback/internal/models"
)

type UserRepository interface {
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	MarkEmailVerified(userID int) error
	MarkWhatsAppVerified(userID int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, name, email, whatsapp,
	email_verified_at, whatsapp_verified_at,
	privacy_consent_at, current_access_code_id,
	created_at, updated_at
`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		emailVerifiedAt sql.NullTime
		waVerifiedAt    sql.NullTime
		currentCodeID   sql.NullInt64
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.WhatsApp,
		&emailVerifiedAt, &waVerifiedAt,
		&u.PrivacyConsentAt, &currentCodeID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	if emailVerifiedAt.Valid {
		t := emailVerifiedAt.Time
		u.EmailVerifiedAt = &t
	}
	if waVerifiedAt.Valid {
		t := waVerifiedAt.Time
		u.WhatsAppVerifiedAt = &t
	}
	if currentCodeID.Valid {
		id := currentCodeID.Int64
		u.CurrentAccessCodeID = &id
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

// MarkEmailVerified — монотонно: первая метка не перезаписывается.
func (r *userRepository) MarkEmailVerified(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET email_verified_at=COALESCE(email_verified_at, NOW()), updated_at=NOW()
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) MarkWhatsAppVerified(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET whatsapp_verified_at=COALESCE(whatsapp_verified_at, NOW()), updated_at=NOW()
		WHERE id=$1
	`, userID)
	return err
}
