package models

import "time"

const (
	OutboxEmail    = "email"
	OutboxWhatsApp = "whatsapp"
)

// OutboxMessage — отложенная доставка (email/WhatsApp).
// Пишется в той же транзакции, что и изменение состояния;
// диспетчер отправляет после коммита (at-least-once).
type OutboxMessage struct {
	ID        int64  `json:"id"`
	Channel   string `json:"channel"` // email | whatsapp
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`  // для email
	Template  string `json:"template,omitempty"` // для whatsapp
	Body      string `json:"body"`               // html либо параметры шаблона через '|'
	Attempts  int    `json:"attempts"`

	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
