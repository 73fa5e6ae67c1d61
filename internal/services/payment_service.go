package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"certback/internal/models"
	"certback/internal/repositories"
)

var (
	ErrNotVerified   = errors.New("email and whatsapp must be verified")
	ErrNotApprovable = errors.New("payment not eligible for approval")
)

const defaultCurrency = "MXN"

// CodeIssuer — выдача кода доступа как следующий шаг после одобрения.
type CodeIssuer interface {
	IssueInitialCode(userID int, paymentID string) error
}

// AdminNotifier — уведомление ревьюеров о платеже, ожидающем проверки.
type AdminNotifier interface {
	NotifyPaymentCaptured(p *models.Payment)
}

type PaymentService interface {
	CreateCheckout(email, method, provider string, amount float64, currency string) (*models.Payment, error)
	// WebhookCapture — идемпотентно: повторная доставка того же provider_ref
	// ничего не меняет и не считается ошибкой.
	WebhookCapture(provider, providerRef string) error
	ApprovePayment(paymentID, reviewerID, notes string) error
	ListForReview(limit, offset int) ([]*models.Payment, error)
	// ReconcileUnissued — компенсация: approved-платежи без выданного кода.
	ReconcileUnissued() (int, error)
}

type paymentService struct {
	payments repositories.PaymentRepository
	users    repositories.UserRepository
	issuer   CodeIssuer
	notifier AdminNotifier // может быть nil
}

func NewPaymentService(
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	issuer CodeIssuer,
	notifier AdminNotifier,
) PaymentService {
	return &paymentService{payments: payments, users: users, issuer: issuer, notifier: notifier}
}

func (s *paymentService) CreateCheckout(email, method, provider string, amount float64, currency string) (*models.Payment, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		currency = defaultCurrency
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Verified() {
		return nil, ErrNotVerified
	}

	p := &models.Payment{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Method:   method,
		Provider: provider,
		Amount:   amount,
		Currency: currency,
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}
	log.Printf("[payment][checkout] ok payment_id=%s user_id=%d amount=%.2f %s", p.ID, user.ID, amount, currency)
	return p, nil
}

func (s *paymentService) WebhookCapture(provider, providerRef string) error {
	providerRef = strings.TrimSpace(providerRef)
	if providerRef == "" {
		// вебхук без ссылки провайдера нам бесполезен, но ответ остаётся 200
		log.Printf("[payment][webhook] skip: empty provider_ref provider=%s", provider)
		return nil
	}

	p, err := s.payments.Capture(provider, providerRef)
	if err != nil {
		return err
	}
	if p == nil {
		// дубликат или неизвестная ссылка — no-op по контракту идемпотентности
		log.Printf("[payment][webhook] no-op provider=%s ref=%s", provider, providerRef)
		return nil
	}

	log.Printf("[payment][webhook] captured payment_id=%s user_id=%d", p.ID, p.UserID)
	if s.notifier != nil {
		s.notifier.NotifyPaymentCaptured(p)
	}
	return nil
}

func (s *paymentService) ApprovePayment(paymentID, reviewerID, notes string) error {
	userID, ok, err := s.payments.Approve(paymentID, reviewerID, notes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotApprovable
	}
	log.Printf("[payment][approve] ok payment_id=%s reviewer=%s", paymentID, reviewerID)

	// Одобрение уже зафиксировано; выдача кода — зависимый шаг.
	// Если он упадёт, платёж останется approved с code_issued_at IS NULL
	// и его доберёт ReconcileUnissued.
	if err := s.issuer.IssueInitialCode(userID, paymentID); err != nil {
		log.Printf("[payment][approve] code issue failed payment_id=%s: %v (will reconcile)", paymentID, err)
		return nil
	}
	return nil
}

func (s *paymentService) ListForReview(limit, offset int) ([]*models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.payments.ListForReview(limit, offset)
}

func (s *paymentService) ReconcileUnissued() (int, error) {
	pending, err := s.payments.ApprovedUnissued(20)
	if err != nil {
		return 0, err
	}
	issued := 0
	for _, p := range pending {
		if err := s.issuer.IssueInitialCode(p.UserID, p.ID); err != nil {
			log.Printf("[payment][reconcile] issue failed payment_id=%s: %v", p.ID, err)
			continue
		}
		issued++
	}
	if issued > 0 {
		log.Printf("[payment][reconcile] issued=%d", issued)
	}
	return issued, nil
}
