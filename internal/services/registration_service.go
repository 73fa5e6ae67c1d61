package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"certback/internal/models"
	"certback/internal/repositories"
	"certback/internal/utils"
)

var (
	ErrConsentRequired = errors.New("privacy consent required")
	ErrResendThrottled = errors.New("resend throttled")
)

// Окна действия и троттлинг (как в исходном флоу).
const (
	emailTokenTTL       = 24 * time.Hour
	whatsappOTPTTL      = 10 * time.Minute
	maxResendsPerWindow = 3
	resendWindow        = 10 * time.Minute
)

type RegistrationService interface {
	// StartRegistration — upsert пользователя + email-токен + WhatsApp OTP
	// + два outbox-сообщения, всё одной транзакцией.
	StartRegistration(name, email, whatsapp string, acceptPrivacy bool) (*models.User, error)
	// ResendWhatsAppOTP — новый код (каждый resend — новая строка), с троттлингом.
	ResendWhatsAppOTP(email string) error
}

type registrationService struct {
	regRepo   repositories.RegistrationRepository
	userRepo  repositories.UserRepository
	verifRepo repositories.VerificationRepository
	outbox    repositories.OutboxRepository
	baseURL   string
}

func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	userRepo repositories.UserRepository,
	verifRepo repositories.VerificationRepository,
	outbox repositories.OutboxRepository,
	baseURL string,
) RegistrationService {
	return &registrationService{
		regRepo:   regRepo,
		userRepo:  userRepo,
		verifRepo: verifRepo,
		outbox:    outbox,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *registrationService) StartRegistration(name, email, whatsapp string, acceptPrivacy bool) (*models.User, error) {
	if !acceptPrivacy {
		return nil, ErrConsentRequired
	}
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	whatsapp = strings.TrimSpace(whatsapp)
	if name == "" || email == "" || whatsapp == "" {
		return nil, fmt.Errorf("name, email and whatsapp are required")
	}

	now := time.Now()

	token, err := utils.NewEmailToken()
	if err != nil {
		return nil, err
	}
	otp, err := utils.NewOTP()
	if err != nil {
		return nil, err
	}

	verifications := []*models.Verification{
		{Type: models.VerificationEmail, TokenOrCode: token, ExpiresAt: now.Add(emailTokenTTL)},
		{Type: models.VerificationWhatsApp, TokenOrCode: otp, ExpiresAt: now.Add(whatsappOTPTTL)},
	}
	outbox := []*models.OutboxMessage{
		s.emailVerificationMessage(email, token),
		s.otpMessage(whatsapp, otp),
	}

	user := &models.User{Name: name, Email: email, WhatsApp: whatsapp}
	user, err = s.regRepo.Register(user, verifications, outbox)
	if err != nil {
		return nil, err
	}

	log.Printf("[register][start] ok user_id=%d email=%s", user.ID, email)
	return user, nil
}

func (s *registrationService) ResendWhatsAppOTP(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	// не чаще 3 отправок за 10 минут
	since := time.Now().Add(-resendWindow)
	cnt, err := s.verifRepo.CountRecentSends(user.ID, models.VerificationWhatsApp, since)
	if err != nil {
		return err
	}
	if cnt >= maxResendsPerWindow {
		return ErrResendThrottled
	}

	otp, err := utils.NewOTP()
	if err != nil {
		return err
	}
	v := &models.Verification{
		UserID:      user.ID,
		Type:        models.VerificationWhatsApp,
		TokenOrCode: otp,
		ExpiresAt:   time.Now().Add(whatsappOTPTTL),
	}
	if err := s.verifRepo.Create(v); err != nil {
		return err
	}
	if err := s.outbox.Create(s.otpMessage(user.WhatsApp, otp)); err != nil {
		return err
	}

	log.Printf("[register][resend] ok user_id=%d", user.ID)
	return nil
}

func (s *registrationService) emailVerificationMessage(email, token string) *models.OutboxMessage {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)
	body := fmt.Sprintf(`
		<h3>Verifica tu correo</h3>
		<p>Para continuar con tu registro, abre el siguiente enlace:</p>
		<p><a href="%s">%s</a></p>
		<p>El enlace es v&aacute;lido por 24 horas.</p>
	`, link, link)
	return &models.OutboxMessage{
		Channel:   models.OutboxEmail,
		Recipient: email,
		Subject:   "Verifica tu correo",
		Body:      body,
	}
}

func (s *registrationService) otpMessage(whatsapp, otp string) *models.OutboxMessage {
	// параметры шаблона через '|': код и срок в минутах
	return &models.OutboxMessage{
		Channel:   models.OutboxWhatsApp,
		Recipient: whatsapp,
		Template:  "auth_otp",
		Body:      otp + "|10",
	}
}
