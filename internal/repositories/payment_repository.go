package repositories

import (
	"database/sql"
	"fmt"

	"certback/internal/models"
)

type PaymentRepository interface {
	Create(p *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	// Capture — идемпотентный переход pending -> captured одним условным UPDATE.
	// Возвращает платёж, если переход случился, иначе (nil, nil) — повтор вебхука.
	Capture(provider, providerRef string) (*models.Payment, error)
	// Approve — условный переход captured/pending-review -> paid/approved.
	// ok=false, если платёж не в подходящем состоянии (включая повторный клик).
	Approve(id, reviewerID string, notes string) (userID int, ok bool, err error)
	ListForReview(limit, offset int) ([]*models.Payment, error)
	// ApprovedUnissued — для reconcile: approved, но код так и не выдан.
	ApprovedUnissued(limit int) ([]*models.Payment, error)
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

const paymentColumns = `
	id, user_id, method, provider, COALESCE(provider_ref,''), status, review_status,
	amount, currency, confirmed_at, reviewed_at, reviewer_id, review_notes,
	code_issued_at, created_at
`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	var (
		confirmedAt  sql.NullTime
		reviewedAt   sql.NullTime
		reviewerID   sql.NullString
		reviewNotes  sql.NullString
		codeIssuedAt sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Method, &p.Provider, &p.ProviderRef, &p.Status, &p.ReviewStatus,
		&p.Amount, &p.Currency, &confirmedAt, &reviewedAt, &reviewerID, &reviewNotes,
		&codeIssuedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		p.ConfirmedAt = &t
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		p.ReviewedAt = &t
	}
	if reviewerID.Valid {
		s := reviewerID.String
		p.ReviewerID = &s
	}
	if reviewNotes.Valid {
		s := reviewNotes.String
		p.ReviewNotes = &s
	}
	if codeIssuedAt.Valid {
		t := codeIssuedAt.Time
		p.CodeIssuedAt = &t
	}
	return p, nil
}

func (r *paymentRepository) Create(p *models.Payment) error {
	const q = `
		INSERT INTO payments (id, user_id, method, provider, provider_ref, status, review_status, amount, currency)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), 'pending', 'pending', $6, $7)
		RETURNING created_at
	`
	if err := r.DB.QueryRow(q, p.ID, p.UserID, p.Method, p.Provider, p.ProviderRef, p.Amount, p.Currency).
		Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("payment create: %w", err)
	}
	p.Status = models.PaymentPending
	p.ReviewStatus = models.ReviewPending
	return nil
}

func (r *paymentRepository) GetByID(id string) (*models.Payment, error) {
	p, err := scanPayment(r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("payment get: %w", err)
	}
	return p, nil
}

func (r *paymentRepository) Capture(provider, providerRef string) (*models.Payment, error) {
	// Предикат status='pending' и есть защита от двойного применения:
	// повторная доставка вебхука не находит строку и ничего не меняет.
	const q = `
		UPDATE payments
		SET status='captured', confirmed_at=NOW()
		WHERE provider=$1 AND provider_ref=$2 AND status='pending'
		RETURNING ` + paymentColumns
	p, err := scanPayment(r.DB.QueryRow(q, provider, providerRef))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("payment capture: %w", err)
	}
	return p, nil
}

func (r *paymentRepository) Approve(id, reviewerID string, notes string) (int, bool, error) {
	const q = `
		UPDATE payments
		SET review_status='approved', status='paid',
			reviewer_id=$2, review_notes=NULLIF($3,''), reviewed_at=NOW()
		WHERE id=$1 AND status='captured' AND review_status='pending'
		RETURNING user_id
	`
	var userID int
	err := r.DB.QueryRow(q, id, reviewerID, notes).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("payment approve: %w", err)
	}
	return userID, true, nil
}

func (r *paymentRepository) ListForReview(limit, offset int) ([]*models.Payment, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status='captured' AND review_status='pending'
		ORDER BY confirmed_at
		LIMIT $1 OFFSET $2
	`
	return r.queryPayments(q, limit, offset)
}

func (r *paymentRepository) ApprovedUnissued(limit int) ([]*models.Payment, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE review_status='approved' AND code_issued_at IS NULL
		ORDER BY reviewed_at
		LIMIT $1
	`
	return r.queryPayments(q, limit)
}

func (r *paymentRepository) queryPayments(q string, args ...any) ([]*models.Payment, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("payment list: %w", err)
	}
	defer rows.Close()

	var res []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("payment list scan: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
