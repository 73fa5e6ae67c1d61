package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"certback/internal/models"
	"certback/internal/repositories"
	"certback/internal/utils"
)

var (
	ErrCodePolicy           = errors.New("code does not meet policy")
	ErrNoActiveCode         = errors.New("no active access code")
	ErrCodeExpired          = errors.New("access code expired")
	ErrCodeInvalid          = errors.New("access code invalid")
	ErrIncorrectCurrentCode = errors.New("current code incorrect")
)

const (
	accessCodeLength = 8
	accessCodeCost   = 12 // фиксированный work factor bcrypt
	accessCodeMonths = 3  // срок действия: календарные +3 месяца
)

// WhatsAppSender — внешний коллаборатор доставки (см. utils.WhatsAppClient).
type WhatsAppSender interface {
	SendTemplate(to, templateName string, params []string) error
}

type AccessCodeService interface {
	// IssueInitialCode — новый код после одобрения платежа. Хэш и подсказка
	// сохраняются транзакцией вместе с указателем current_access_code_id;
	// открытый текст уходит в email/WhatsApp сразу после коммита и нигде не хранится.
	IssueInitialCode(userID int, paymentID string) error
	// Login — проверка кода; сессий этот сервис не выдаёт, только user_id.
	Login(email, code string) (int, error)
	// Change — ротация кода на месте, срок действия не продлевается.
	Change(email, currentCode, newCode string) error
}

type accessCodeService struct {
	codes    repositories.AccessCodeRepository
	users    repositories.UserRepository
	emails   EmailService
	whatsapp WhatsAppSender
}

func NewAccessCodeService(
	codes repositories.AccessCodeRepository,
	users repositories.UserRepository,
	emails EmailService,
	whatsapp WhatsAppSender,
) AccessCodeService {
	return &accessCodeService{codes: codes, users: users, emails: emails, whatsapp: whatsapp}
}

// ValidCodePolicy — требования к пользовательскому коду: минимум 8 символов,
// хотя бы одна заглавная, одна строчная и одна цифра; только буквы и цифры.
// К сгенерированным кодам не применяется.
func ValidCodePolicy(candidate string) bool {
	if len(candidate) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range candidate {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			return false
		}
	}
	return upper && lower && digit
}

func HashCode(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), accessCodeCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(h), nil
}

func VerifyCode(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *accessCodeService) IssueInitialCode(userID int, paymentID string) error {
	plain, err := utils.GenerateReadableCode(accessCodeLength)
	if err != nil {
		return err
	}
	hash, err := HashCode(plain)
	if err != nil {
		return err
	}

	now := time.Now()
	code := &models.AccessCode{
		UserID:    userID,
		CodeHash:  hash,
		CodeHint:  plain[len(plain)-4:],
		IssuedAt:  now,
		ExpiresAt: utils.AddMonths(now, accessCodeMonths),
	}
	if err := s.codes.Issue(code, paymentID); err != nil {
		return err
	}
	log.Printf("[access][issue] ok user_id=%d code_id=%d expires=%s", userID, code.ID, code.ExpiresAt.Format(time.RFC3339))

	// Доставка после коммита. Открытый текст в outbox не кладём — он бы
	// сохранился в БД; при неудаче только предупреждаем.
	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		log.Printf("[access][issue] warn: user %d lookup for delivery failed: %v", userID, err)
		return nil
	}
	if s.emails != nil {
		body := fmt.Sprintf(`
			<h3>Tu c&oacute;digo de acceso</h3>
			<p>C&oacute;digo: <strong>%s</strong></p>
			<p>Vigente hasta %s.</p>
		`, plain, code.ExpiresAt.Format("2006-01-02"))
		if err := s.emails.SendHTML(user.Email, "Tu código de acceso", body); err != nil {
			log.Printf("[access][issue] warn: email to %s failed: %v", user.Email, err)
		}
	}
	if s.whatsapp != nil {
		if err := s.whatsapp.SendTemplate(user.WhatsApp, "access_code", []string{plain}); err != nil {
			log.Printf("[access][issue] warn: whatsapp to %s failed: %v", user.WhatsApp, err)
		}
	}
	return nil
}

func (s *accessCodeService) Login(email, code string) (int, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	ac, err := s.codes.CurrentByEmail(email)
	if err != nil {
		return 0, err
	}
	if ac == nil {
		return 0, ErrNoActiveCode
	}
	if !ac.ExpiresAt.After(time.Now()) {
		return 0, ErrCodeExpired
	}
	if !VerifyCode(code, ac.CodeHash) {
		return 0, ErrCodeInvalid
	}
	if err := s.codes.TouchLastUsed(ac.ID); err != nil {
		return 0, err
	}
	log.Printf("[access][login] ok user_id=%d", ac.UserID)
	return ac.UserID, nil
}

func (s *accessCodeService) Change(email, currentCode, newCode string) error {
	// политика проверяется до любых обращений к БД
	if !ValidCodePolicy(newCode) {
		return ErrCodePolicy
	}
	email = strings.TrimSpace(strings.ToLower(email))

	ac, err := s.codes.CurrentByEmail(email)
	if err != nil {
		return err
	}
	if ac == nil {
		return ErrNoActiveCode
	}
	if !ac.ExpiresAt.After(time.Now()) {
		return ErrCodeExpired
	}
	if !VerifyCode(currentCode, ac.CodeHash) {
		return ErrIncorrectCurrentCode
	}

	hash, err := HashCode(newCode)
	if err != nil {
		return err
	}
	if err := s.codes.UpdateHash(ac.ID, hash, newCode[len(newCode)-4:]); err != nil {
		return err
	}
	log.Printf("[access][change] ok user_id=%d code_id=%d", ac.UserID, ac.ID)
	return nil
}
