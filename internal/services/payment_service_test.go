package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"certback/internal/models"
)

func verifiedUser() *models.User {
	now := time.Now()
	return &models.User{
		ID:                 7,
		Email:              "ana@example.test",
		WhatsApp:           "+5215512345678",
		EmailVerifiedAt:    &now,
		WhatsAppVerifiedAt: &now,
	}
}

func TestCreateCheckout_RequiresBothVerifications(t *testing.T) {
	now := time.Now()
	users := new(MockUserRepository)
	payments := new(MockPaymentRepository)
	// email подтверждён, WhatsApp — нет
	users.On("GetByEmail", "ana@example.test").
		Return(&models.User{ID: 7, EmailVerifiedAt: &now}, nil)

	svc := NewPaymentService(payments, users, new(MockCodeIssuer), nil)
	_, err := svc.CreateCheckout("ana@example.test", "card", "stripe", 1500, "")

	assert.ErrorIs(t, err, ErrNotVerified)
	payments.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateCheckout_DefaultsCurrency(t *testing.T) {
	users := new(MockUserRepository)
	payments := new(MockPaymentRepository)
	users.On("GetByEmail", "ana@example.test").Return(verifiedUser(), nil)

	var created *models.Payment
	payments.On("Create", mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(0).(*models.Payment) }).
		Return(nil)

	svc := NewPaymentService(payments, users, new(MockCodeIssuer), nil)
	p, err := svc.CreateCheckout("Ana@Example.Test", "card", "stripe", 1500, "")

	assert.NoError(t, err)
	assert.Equal(t, "MXN", created.Currency)
	assert.Equal(t, 7, created.UserID)
	assert.NotEmpty(t, p.ID)
}

func TestCreateCheckout_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewPaymentService(new(MockPaymentRepository), new(MockUserRepository), new(MockCodeIssuer), nil)
	_, err := svc.CreateCheckout("ana@example.test", "card", "stripe", 0, "MXN")
	assert.Error(t, err)
}

func TestWebhookCapture_EmptyRefIsNoop(t *testing.T) {
	payments := new(MockPaymentRepository)
	svc := NewPaymentService(payments, new(MockUserRepository), new(MockCodeIssuer), nil)

	assert.NoError(t, svc.WebhookCapture("stripe", "  "))
	payments.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
}

func TestWebhookCapture_DuplicateIsNoop(t *testing.T) {
	// повторная доставка вебхука: conditional UPDATE ничего не затронул
	payments := new(MockPaymentRepository)
	notifier := new(MockAdminNotifier)
	payments.On("Capture", "stripe", "pi_123").Return(nil, nil)

	svc := NewPaymentService(payments, new(MockUserRepository), new(MockCodeIssuer), notifier)
	assert.NoError(t, svc.WebhookCapture("stripe", "pi_123"))

	notifier.AssertNotCalled(t, "NotifyPaymentCaptured", mock.Anything)
}

func TestWebhookCapture_NotifiesOnFirstCapture(t *testing.T) {
	payments := new(MockPaymentRepository)
	notifier := new(MockAdminNotifier)
	captured := &models.Payment{ID: "pay-1", UserID: 7, Status: models.PaymentCaptured}
	payments.On("Capture", "stripe", "pi_123").Return(captured, nil)
	notifier.On("NotifyPaymentCaptured", captured).Return()

	svc := NewPaymentService(payments, new(MockUserRepository), new(MockCodeIssuer), notifier)
	assert.NoError(t, svc.WebhookCapture("stripe", "pi_123"))

	notifier.AssertExpectations(t)
}

func TestApprovePayment_NotApprovable(t *testing.T) {
	payments := new(MockPaymentRepository)
	issuer := new(MockCodeIssuer)
	payments.On("Approve", "pay-1", "admin@example.test", "").Return(0, false, nil)

	svc := NewPaymentService(payments, new(MockUserRepository), issuer, nil)
	err := svc.ApprovePayment("pay-1", "admin@example.test", "")

	assert.ErrorIs(t, err, ErrNotApprovable)
	issuer.AssertNotCalled(t, "IssueInitialCode", mock.Anything, mock.Anything)
}

func TestApprovePayment_IssuesCode(t *testing.T) {
	payments := new(MockPaymentRepository)
	issuer := new(MockCodeIssuer)
	payments.On("Approve", "pay-1", "admin@example.test", "ok").Return(7, true, nil)
	issuer.On("IssueInitialCode", 7, "pay-1").Return(nil)

	svc := NewPaymentService(payments, new(MockUserRepository), issuer, nil)
	err := svc.ApprovePayment("pay-1", "admin@example.test", "ok")

	assert.NoError(t, err)
	issuer.AssertExpectations(t)
}

func TestApprovePayment_IssueFailureLeavesApproval(t *testing.T) {
	// одобрение уже зафиксировано; провал выдачи кода доберёт reconcile
	payments := new(MockPaymentRepository)
	issuer := new(MockCodeIssuer)
	payments.On("Approve", "pay-1", "admin@example.test", "").Return(7, true, nil)
	issuer.On("IssueInitialCode", 7, "pay-1").Return(errors.New("smtp down"))

	svc := NewPaymentService(payments, new(MockUserRepository), issuer, nil)
	assert.NoError(t, svc.ApprovePayment("pay-1", "admin@example.test", ""))
}

func TestReconcileUnissued(t *testing.T) {
	payments := new(MockPaymentRepository)
	issuer := new(MockCodeIssuer)
	payments.On("ApprovedUnissued", 20).Return([]*models.Payment{
		{ID: "pay-1", UserID: 7},
		{ID: "pay-2", UserID: 8},
	}, nil)
	issuer.On("IssueInitialCode", 7, "pay-1").Return(errors.New("still failing"))
	issuer.On("IssueInitialCode", 8, "pay-2").Return(nil)

	svc := NewPaymentService(payments, new(MockUserRepository), issuer, nil)
	issued, err := svc.ReconcileUnissued()

	assert.NoError(t, err)
	assert.Equal(t, 1, issued)
	issuer.AssertExpectations(t)
}

func TestListForReview_ClampsLimit(t *testing.T) {
	payments := new(MockPaymentRepository)
	payments.On("ListForReview", 50, 0).Return([]*models.Payment{}, nil)

	svc := NewPaymentService(payments, new(MockUserRepository), new(MockCodeIssuer), nil)
	_, err := svc.ListForReview(0, 0)

	assert.NoError(t, err)
	payments.AssertExpectations(t)
}
