package repositories

import (
	"database/sql"
	"fmt"

	"certback/internal/models"
)

type OutboxRepository interface {
	Create(m *models.OutboxMessage) error
	// PendingBatch — неотправленные сообщения, не исчерпавшие лимит попыток.
	PendingBatch(limit, maxAttempts int) ([]*models.OutboxMessage, error)
	MarkSent(id int64) error
	IncrementAttempts(id int64) (int, error)
}

type outboxRepository struct {
	DB *sql.DB
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{DB: db}
}

func (r *outboxRepository) Create(m *models.OutboxMessage) error {
	const q = `
		INSERT INTO outbox_messages (channel, recipient, subject, template, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, m.Channel, m.Recipient, m.Subject, m.Template, m.Body).
		Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("outbox create: %w", err)
	}
	return nil
}

func (r *outboxRepository) PendingBatch(limit, maxAttempts int) ([]*models.OutboxMessage, error) {
	const q = `
		SELECT id, channel, recipient, COALESCE(subject,''), COALESCE(template,''), body, attempts, sent_at, created_at
		FROM outbox_messages
		WHERE sent_at IS NULL AND attempts < $2
		ORDER BY created_at
		LIMIT $1
	`
	rows, err := r.DB.Query(q, limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("outbox pending: %w", err)
	}
	defer rows.Close()

	var res []*models.OutboxMessage
	for rows.Next() {
		m := &models.OutboxMessage{}
		var sentAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.Channel, &m.Recipient, &m.Subject, &m.Template, &m.Body, &m.Attempts, &sentAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("outbox scan: %w", err)
		}
		if sentAt.Valid {
			t := sentAt.Time
			m.SentAt = &t
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *outboxRepository) MarkSent(id int64) error {
	_, err := r.DB.Exec(`UPDATE outbox_messages SET sent_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *outboxRepository) IncrementAttempts(id int64) (int, error) {
	var attempts int
	if err := r.DB.QueryRow(`
		UPDATE outbox_messages SET attempts=attempts+1 WHERE id=$1 RETURNING attempts
	`, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("outbox increment attempts: %w", err)
	}
	return attempts, nil
}
