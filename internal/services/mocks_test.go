package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"certback/internal/models"
)

// Моки репозиториев и коллабораторов для юнит-тестов сервисов.

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetByID(id int) (*models.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(userID int) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepository) MarkWhatsAppVerified(userID int) error {
	return m.Called(userID).Error(0)
}

type MockRegistrationRepository struct{ mock.Mock }

func (m *MockRegistrationRepository) Register(user *models.User, verifications []*models.Verification, outbox []*models.OutboxMessage) (*models.User, error) {
	args := m.Called(user, verifications, outbox)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockVerificationRepository struct{ mock.Mock }

func (m *MockVerificationRepository) Create(v *models.Verification) error {
	return m.Called(v).Error(0)
}

func (m *MockVerificationRepository) FindActiveEmailToken(token string) (*models.Verification, error) {
	args := m.Called(token)
	if v := args.Get(0); v != nil {
		return v.(*models.Verification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepository) FindActiveWhatsAppCode(userID int, code string) (*models.Verification, error) {
	args := m.Called(userID, code)
	if v := args.Get(0); v != nil {
		return v.(*models.Verification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepository) Confirm(verificationID int64, userID int, verificationType string) error {
	return m.Called(verificationID, userID, verificationType).Error(0)
}

func (m *MockVerificationRepository) CountRecentSends(userID int, verificationType string, since time.Time) (int, error) {
	args := m.Called(userID, verificationType, since)
	return args.Int(0), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Create(p *models.Payment) error {
	return m.Called(p).Error(0)
}

func (m *MockPaymentRepository) GetByID(id string) (*models.Payment, error) {
	args := m.Called(id)
	if p := args.Get(0); p != nil {
		return p.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentRepository) Capture(provider, providerRef string) (*models.Payment, error) {
	args := m.Called(provider, providerRef)
	if p := args.Get(0); p != nil {
		return p.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentRepository) Approve(id, reviewerID, notes string) (int, bool, error) {
	args := m.Called(id, reviewerID, notes)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockPaymentRepository) ListForReview(limit, offset int) ([]*models.Payment, error) {
	args := m.Called(limit, offset)
	if ps := args.Get(0); ps != nil {
		return ps.([]*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentRepository) ApprovedUnissued(limit int) ([]*models.Payment, error) {
	args := m.Called(limit)
	if ps := args.Get(0); ps != nil {
		return ps.([]*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAccessCodeRepository struct{ mock.Mock }

func (m *MockAccessCodeRepository) Issue(code *models.AccessCode, paymentID string) error {
	return m.Called(code, paymentID).Error(0)
}

func (m *MockAccessCodeRepository) CurrentByEmail(email string) (*models.AccessCode, error) {
	args := m.Called(email)
	if c := args.Get(0); c != nil {
		return c.(*models.AccessCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccessCodeRepository) TouchLastUsed(id int64) error {
	return m.Called(id).Error(0)
}

func (m *MockAccessCodeRepository) UpdateHash(id int64, codeHash, codeHint string) error {
	return m.Called(id, codeHash, codeHint).Error(0)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Create(msg *models.OutboxMessage) error {
	return m.Called(msg).Error(0)
}

func (m *MockOutboxRepository) PendingBatch(limit, maxAttempts int) ([]*models.OutboxMessage, error) {
	args := m.Called(limit, maxAttempts)
	if ms := args.Get(0); ms != nil {
		return ms.([]*models.OutboxMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(id int64) error {
	return m.Called(id).Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(id int64) (int, error) {
	args := m.Called(id)
	return args.Int(0), args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendHTML(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}

type MockWhatsAppSender struct{ mock.Mock }

func (m *MockWhatsAppSender) SendTemplate(to, templateName string, params []string) error {
	return m.Called(to, templateName, params).Error(0)
}

type MockCodeIssuer struct{ mock.Mock }

func (m *MockCodeIssuer) IssueInitialCode(userID int, paymentID string) error {
	return m.Called(userID, paymentID).Error(0)
}

type MockAdminNotifier struct{ mock.Mock }

func (m *MockAdminNotifier) NotifyPaymentCaptured(p *models.Payment) {
	m.Called(p)
}

type MockReconciler struct{ mock.Mock }

func (m *MockReconciler) ReconcileUnissued() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
