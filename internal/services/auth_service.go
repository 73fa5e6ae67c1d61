package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"certback/internal/middleware"
)

var ErrBadCredentials = errors.New("invalid email or password")

// AuthService — вход ревьюера. В исходном флоу reviewer_id был захардкожен;
// здесь обычный bcrypt + HS256 JWT из тех же учётных данных конфига.
type AuthService interface {
	Login(email, password string) (string, error)
}

type authService struct {
	adminEmail   string
	passwordHash string
	tokenTTL     time.Duration
}

func NewAuthService(adminEmail, passwordHash string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &authService{
		adminEmail:   strings.TrimSpace(strings.ToLower(adminEmail)),
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
	}
}

func (s *authService) Login(email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || email != s.adminEmail || s.passwordHash == "" {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		log.Printf("[auth][login] bcrypt mismatch for %q", email)
		return "", ErrBadCredentials
	}

	claims := &middleware.Claims{
		Reviewer: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(middleware.JWTKey())
	if err != nil {
		return "", err
	}
	log.Printf("[auth][login] ok reviewer=%s exp_in=%s", email, s.tokenTTL)
	return signed, nil
}
