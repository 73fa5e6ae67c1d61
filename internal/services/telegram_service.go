package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"certback/internal/models"
)

// TelegramService — уведомления ревьюеров о захваченных платежах.
// Без токена или chat_id работает как no-op.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramService(botToken string, chatID int64) *TelegramService {
	if botToken == "" || chatID == 0 {
		log.Printf("[tg] disabled: token or chat_id not configured")
		return &TelegramService{}
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg] init failed: %v", err)
		return &TelegramService{}
	}
	return &TelegramService{bot: bot, chatID: chatID}
}

// NotifyPaymentCaptured — best effort, ошибки только в лог.
func (t *TelegramService) NotifyPaymentCaptured(p *models.Payment) {
	if t == nil || t.bot == nil {
		return
	}
	text := fmt.Sprintf(
		"💳 Платёж ожидает проверки\nID: %s\nСумма: %.2f %s\nПровайдер: %s",
		p.ID, p.Amount, p.Currency, p.Provider,
	)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg] send failed: %v", err)
	}
}
