package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"certback/internal/models"
)

func TestStartRegistration_RequiresConsent(t *testing.T) {
	regRepo := new(MockRegistrationRepository)
	svc := NewRegistrationService(regRepo, nil, nil, nil, "https://example.test")

	user, err := svc.StartRegistration("Ana", "ana@example.test", "+5215512345678", false)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrConsentRequired)
	// без согласия в БД не пишем вообще ничего
	regRepo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartRegistration_CreatesVerificationsAndOutbox(t *testing.T) {
	regRepo := new(MockRegistrationRepository)

	var gotVerifs []*models.Verification
	var gotOutbox []*models.OutboxMessage
	regRepo.On("Register", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotVerifs = args.Get(1).([]*models.Verification)
			gotOutbox = args.Get(2).([]*models.OutboxMessage)
		}).
		Return(&models.User{ID: 7, Email: "ana@example.test"}, nil)

	svc := NewRegistrationService(regRepo, nil, nil, nil, "https://example.test/")
	before := time.Now()

	user, err := svc.StartRegistration("  Ana  ", "ANA@Example.Test", "+5215512345678", true)

	assert.NoError(t, err)
	assert.Equal(t, 7, user.ID)

	// две верификации: email-токен на 24 часа и WhatsApp-код на 10 минут
	assert.Len(t, gotVerifs, 2)
	assert.Equal(t, models.VerificationEmail, gotVerifs[0].Type)
	assert.Len(t, gotVerifs[0].TokenOrCode, 32)
	assert.WithinDuration(t, before.Add(24*time.Hour), gotVerifs[0].ExpiresAt, 5*time.Second)
	assert.Equal(t, models.VerificationWhatsApp, gotVerifs[1].Type)
	assert.Len(t, gotVerifs[1].TokenOrCode, 6)
	assert.WithinDuration(t, before.Add(10*time.Minute), gotVerifs[1].ExpiresAt, 5*time.Second)

	// два outbox-сообщения той же транзакцией
	assert.Len(t, gotOutbox, 2)
	assert.Equal(t, models.OutboxEmail, gotOutbox[0].Channel)
	assert.Equal(t, "ana@example.test", gotOutbox[0].Recipient)
	assert.Contains(t, gotOutbox[0].Body, "https://example.test/verify-email?token="+gotVerifs[0].TokenOrCode)
	assert.Equal(t, models.OutboxWhatsApp, gotOutbox[1].Channel)
	assert.Equal(t, "+5215512345678", gotOutbox[1].Recipient)
	assert.Equal(t, "auth_otp", gotOutbox[1].Template)
	assert.Equal(t, gotVerifs[1].TokenOrCode+"|10", gotOutbox[1].Body)

	regRepo.AssertExpectations(t)
}

func TestStartRegistration_RejectsEmptyFields(t *testing.T) {
	regRepo := new(MockRegistrationRepository)
	svc := NewRegistrationService(regRepo, nil, nil, nil, "https://example.test")

	_, err := svc.StartRegistration("", "ana@example.test", "+5215512345678", true)
	assert.Error(t, err)
	regRepo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestResendWhatsAppOTP_Throttled(t *testing.T) {
	userRepo := new(MockUserRepository)
	verifRepo := new(MockVerificationRepository)
	outbox := new(MockOutboxRepository)

	userRepo.On("GetByEmail", "ana@example.test").
		Return(&models.User{ID: 7, Email: "ana@example.test", WhatsApp: "+5215512345678"}, nil)
	verifRepo.On("CountRecentSends", 7, models.VerificationWhatsApp, mock.Anything).Return(3, nil)

	svc := NewRegistrationService(nil, userRepo, verifRepo, outbox, "https://example.test")
	err := svc.ResendWhatsAppOTP("ana@example.test")

	assert.ErrorIs(t, err, ErrResendThrottled)
	verifRepo.AssertNotCalled(t, "Create", mock.Anything)
	outbox.AssertNotCalled(t, "Create", mock.Anything)
}

func TestResendWhatsAppOTP_NewCodeEachTime(t *testing.T) {
	userRepo := new(MockUserRepository)
	verifRepo := new(MockVerificationRepository)
	outbox := new(MockOutboxRepository)

	userRepo.On("GetByEmail", "ana@example.test").
		Return(&models.User{ID: 7, Email: "ana@example.test", WhatsApp: "+5215512345678"}, nil)
	verifRepo.On("CountRecentSends", 7, models.VerificationWhatsApp, mock.Anything).Return(1, nil)

	var created *models.Verification
	verifRepo.On("Create", mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(0).(*models.Verification) }).
		Return(nil)
	var queued *models.OutboxMessage
	outbox.On("Create", mock.Anything).
		Run(func(args mock.Arguments) { queued = args.Get(0).(*models.OutboxMessage) }).
		Return(nil)

	svc := NewRegistrationService(nil, userRepo, verifRepo, outbox, "https://example.test")
	err := svc.ResendWhatsAppOTP("Ana@Example.Test")

	assert.NoError(t, err)
	assert.Equal(t, 7, created.UserID)
	assert.Equal(t, models.VerificationWhatsApp, created.Type)
	assert.Len(t, created.TokenOrCode, 6)
	assert.Equal(t, created.TokenOrCode+"|10", queued.Body)
	assert.Equal(t, "+5215512345678", queued.Recipient)
}

func TestResendWhatsAppOTP_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByEmail", "nadie@example.test").Return(nil, nil)

	svc := NewRegistrationService(nil, userRepo, nil, nil, "https://example.test")
	err := svc.ResendWhatsAppOTP("nadie@example.test")

	assert.ErrorIs(t, err, ErrUserNotFound)
}
