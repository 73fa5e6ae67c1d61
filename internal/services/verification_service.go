package services

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"certback/internal/models"
	"certback/internal/repositories"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidOrExpired = errors.New("invalid or expired token")
)

type VerificationService interface {
	VerifyEmail(token string) error
	VerifyWhatsApp(email, code string) error
}

type verificationService struct {
	verifRepo repositories.VerificationRepository
	userRepo  repositories.UserRepository
}

func NewVerificationService(verifRepo repositories.VerificationRepository, userRepo repositories.UserRepository) VerificationService {
	return &verificationService{verifRepo: verifRepo, userRepo: userRepo}
}

func (s *verificationService) VerifyEmail(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidOrExpired
	}
	v, err := s.verifRepo.FindActiveEmailToken(token)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrInvalidOrExpired
	}
	if err := s.verifRepo.Confirm(v.ID, v.UserID, models.VerificationEmail); err != nil {
		if err == sql.ErrNoRows {
			// запись успела подтвердиться параллельным запросом
			return ErrInvalidOrExpired
		}
		return err
	}
	log.Printf("[verify][email] ok user_id=%d", v.UserID)
	return nil
}

func (s *verificationService) VerifyWhatsApp(email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	v, err := s.verifRepo.FindActiveWhatsAppCode(user.ID, code)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrInvalidOrExpired
	}
	if err := s.verifRepo.Confirm(v.ID, user.ID, models.VerificationWhatsApp); err != nil {
		if err == sql.ErrNoRows {
			return ErrInvalidOrExpired
		}
		return err
	}
	log.Printf("[verify][whatsapp] ok user_id=%d", user.ID)
	return nil
}
