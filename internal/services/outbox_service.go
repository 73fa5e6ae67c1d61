package services

import (
	"context"
	"log"
	"strings"
	"time"

	"certback/internal/models"
	"certback/internal/repositories"
)

// OutboxDispatcher — доставка отложенных сообщений после коммита состояния.
// At-least-once: неудачная отправка повторяется до maxAttempts.
type OutboxDispatcher struct {
	repo     repositories.OutboxRepository
	emails   EmailService
	whatsapp WhatsAppSender

	// Reconciler добирает approved-платежи без выданного кода (сага).
	reconciler interface{ ReconcileUnissued() (int, error) }

	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

func NewOutboxDispatcher(
	repo repositories.OutboxRepository,
	emails EmailService,
	whatsapp WhatsAppSender,
	reconciler interface{ ReconcileUnissued() (int, error) },
) *OutboxDispatcher {
	return &OutboxDispatcher{
		repo:        repo,
		emails:      emails,
		whatsapp:    whatsapp,
		reconciler:  reconciler,
		Interval:    5 * time.Second,
		BatchSize:   20,
		MaxAttempts: 5,
	}
}

// Run — цикл опроса; останавливается по ctx.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	log.Printf("[outbox] dispatcher started interval=%s", d.Interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[outbox] dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.Flush(); err != nil {
				log.Printf("[outbox] flush error: %v", err)
			}
			if d.reconciler != nil {
				if _, err := d.reconciler.ReconcileUnissued(); err != nil {
					log.Printf("[outbox] reconcile error: %v", err)
				}
			}
		}
	}
}

// Flush — один проход по неотправленным сообщениям. Возвращает число отправленных.
func (d *OutboxDispatcher) Flush() (int, error) {
	batch, err := d.repo.PendingBatch(d.BatchSize, d.MaxAttempts)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, m := range batch {
		if err := d.deliver(m); err != nil {
			attempts, incErr := d.repo.IncrementAttempts(m.ID)
			if incErr != nil {
				log.Printf("[outbox] increment attempts failed id=%d: %v", m.ID, incErr)
				continue
			}
			if attempts >= d.MaxAttempts {
				log.Printf("[outbox] giving up id=%d channel=%s after %d attempts: %v", m.ID, m.Channel, attempts, err)
			} else {
				log.Printf("[outbox] deliver failed id=%d channel=%s attempt=%d: %v", m.ID, m.Channel, attempts, err)
			}
			continue
		}
		if err := d.repo.MarkSent(m.ID); err != nil {
			// отправлено, но не отмечено — возможен повтор (at-least-once)
			log.Printf("[outbox] mark sent failed id=%d: %v", m.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (d *OutboxDispatcher) deliver(m *models.OutboxMessage) error {
	switch m.Channel {
	case models.OutboxEmail:
		return d.emails.SendHTML(m.Recipient, m.Subject, m.Body)
	case models.OutboxWhatsApp:
		var params []string
		if m.Body != "" {
			params = strings.Split(m.Body, "|")
		}
		return d.whatsapp.SendTemplate(m.Recipient, m.Template, params)
	default:
		log.Printf("[outbox] unknown channel %q id=%d, dropping", m.Channel, m.ID)
		return nil
	}
}
