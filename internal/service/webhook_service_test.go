package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/payment"
)

type webhookServiceMocks struct {
	provider    *MockProvider
	intentRepo  *MockIntentRepository
	postService *MockPostService
}

func newTestWebhookService() (WebhookService, *webhookServiceMocks) {
	mocks := &webhookServiceMocks{
		provider:    &MockProvider{name: payment.ProviderPix},
		intentRepo:  new(MockIntentRepository),
		postService: new(MockPostService),
	}

	svc := NewWebhookService(
		map[string]payment.Provider{payment.ProviderPix: mocks.provider},
		mocks.intentRepo,
		mocks.postService,
	)

	return svc, mocks
}

func TestWebhookService_UnknownProvider(t *testing.T) {
	svc, _ := newTestWebhookService()

	err := svc.HandleNotification(context.Background(), "paypal", []byte("{}"), "sig")
	assert.Error(t, err)
}

func TestWebhookService_BadSignature(t *testing.T) {
	svc, mocks := newTestWebhookService()

	payload := []byte(`{"event":"PAYMENT_CONFIRMED"}`)
	mocks.provider.On("VerifySignature", payload, "bad-sig").Return(false)

	err := svc.HandleNotification(context.Background(), payment.ProviderPix, payload, "bad-sig")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	// A rejected payload must not reach the parser or any repository.
	mocks.provider.AssertNotCalled(t, "ParseEvent", mock.Anything)
	mocks.intentRepo.AssertNotCalled(t, "GetByRef", mock.Anything, mock.Anything)
	mocks.postService.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
}

func TestWebhookService_ConfirmedEventDrivesConfirmation(t *testing.T) {
	svc, mocks := newTestWebhookService()

	payload := []byte(`{"event":"PAYMENT_CONFIRMED"}`)
	intent := &models.PaymentIntent{
		ExternalRef: "pay_123",
		TargetType:  models.TargetNewPost,
		Status:      models.IntentPending,
	}

	mocks.provider.On("VerifySignature", payload, "good-sig").Return(true)
	mocks.provider.On("ParseEvent", payload).Return(&payment.Event{
		Type:        payment.EventConfirmed,
		ExternalRef: "pay_123",
	}, nil)
	mocks.intentRepo.On("GetByRef", mock.Anything, "pay_123").Return(intent, nil)
	mocks.postService.On("ConfirmPayment", mock.Anything, intent).Return(&models.Post{PostID: "post-1"}, nil)

	err := svc.HandleNotification(context.Background(), payment.ProviderPix, payload, "good-sig")

	require.NoError(t, err)
	mocks.postService.AssertExpectations(t)
}

func TestWebhookService_ConfirmedWithMissingIntentReconstructs(t *testing.T) {
	svc, mocks := newTestWebhookService()

	postPayload, _ := json.Marshal(models.PostPayload{Title: "Geladeira usada"})
	payload := []byte(`{"event":"PAYMENT_CONFIRMED"}`)

	mocks.provider.On("VerifySignature", payload, "good-sig").Return(true)
	mocks.provider.On("ParseEvent", payload).Return(&payment.Event{
		Type:        payment.EventConfirmed,
		ExternalRef: "pay_123",
		Amount:      30.00,
		TargetType:  models.TargetNewPost,
		Phone:       "27999990000",
		Payload:     postPayload,
	}, nil)
	mocks.intentRepo.On("GetByRef", mock.Anything, "pay_123").Return(nil, models.ErrIntentNotFound)
	mocks.postService.On("ConfirmPayment", mock.Anything, mock.MatchedBy(func(intent *models.PaymentIntent) bool {
		return intent.ExternalRef == "pay_123" &&
			intent.TargetType == models.TargetNewPost &&
			intent.Phone == "27999990000" &&
			string(intent.Metadata) == string(postPayload)
	})).Return(&models.Post{PostID: "post-1"}, nil)

	err := svc.HandleNotification(context.Background(), payment.ProviderPix, payload, "good-sig")

	require.NoError(t, err)
	mocks.postService.AssertExpectations(t)
}

func TestWebhookService_ConfirmedWithoutIntentOrMetadataIsIgnored(t *testing.T) {
	svc, mocks := newTestWebhookService()

	payload := []byte(`{"event":"PAYMENT_CONFIRMED"}`)

	mocks.provider.On("VerifySignature", payload, "good-sig").Return(true)
	mocks.provider.On("ParseEvent", payload).Return(&payment.Event{
		Type:        payment.EventConfirmed,
		ExternalRef: "pay_123",
	}, nil)
	mocks.intentRepo.On("GetByRef", mock.Anything, "pay_123").Return(nil, models.ErrIntentNotFound)

	err := svc.HandleNotification(context.Background(), payment.ProviderPix, payload, "good-sig")

	require.NoError(t, err)
	mocks.postService.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
}

func TestWebhookService_RepostEventWithoutPostIDIsIgnored(t *testing.T) {
	svc, mocks := newTestWebhookService()

	payload := []byte(`{"event":"PAYMENT_CONFIRMED"}`)

	mocks.provider.On("VerifySignature", payload, "good-sig").Return(true)
	mocks.provider.On("ParseEvent", payload).Return(&payment.Event{
		Type:        payment.EventConfirmed,
		ExternalRef: "pay_123",
		TargetType:  models.TargetRepost,
		Phone:       "27999990000",
	}, nil)
	mocks.intentRepo.On("GetByRef", mock.Anything, "pay_123").Return(nil, models.ErrIntentNotFound)

	err := svc.HandleNotification(context.Background(), payment.ProviderPix, payload, "good-sig")

	require.NoError(t, err)
	mocks.postService.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
}

func TestWebhookService_OverdueAndDeletedOnlyMarkTheIntent(t *testing.T) {
	tests := []struct {
		name       string
		eventType  string
		wantStatus string
	}{
		{"overdue", payment.EventOverdue, models.IntentOverdue},
		{"deleted", payment.EventDeleted, models.IntentDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newTestWebhookService()
			payload := []byte(`{"event":"whatever"}`)

			mocks.provider.On("VerifySignature", payload, "good-sig").Return(true)
			mocks.provider.On("ParseEvent", payload).Return(&payment.Event{
				Type:        tt.eventType,
				ExternalRef: "pay_123",
			}, nil)
			mocks.intentRepo.On("MarkStatus", mock.Anything, "pay_123", tt.wantStatus).Return(nil)

			err := svc.HandleNotification(context.Background(), payment.ProviderPix, payload, "good-sig")

			require.NoError(t, err)
			mocks.intentRepo.AssertExpectations(t)
			mocks.postService.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
		})
	}
}

func TestWebhookService_UnknownEventTypeIsAcked(t *testing.T) {
	svc, mocks := newTestWebhookService()

	payload := []byte(`{"event":"PAYMENT_UPDATED"}`)

	mocks.provider.On("VerifySignature", payload, "good-sig").Return(true)
	mocks.provider.On("ParseEvent", payload).Return(&payment.Event{
		Type:        payment.EventUnknown,
		ExternalRef: "pay_123",
	}, nil)

	err := svc.HandleNotification(context.Background(), payment.ProviderPix, payload, "good-sig")

	require.NoError(t, err)
	mocks.intentRepo.AssertNotCalled(t, "MarkStatus", mock.Anything, mock.Anything, mock.Anything)
}
