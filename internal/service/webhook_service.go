package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/payment"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/repository"
)

var webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "showcase_webhook_events_total",
	Help: "Payment provider webhook events by provider and normalized type.",
}, []string{"provider", "type"})

type WebhookService interface {
	// HandleNotification verifies, normalizes and applies one provider
	// notification. Returns models.ErrUnauthorized on a bad signature;
	// any nil return means the payload was durably processed (or safely
	// ignored) and the provider may be acked.
	HandleNotification(ctx context.Context, providerName string, payload []byte, signatureHeader string) error
}

type webhookService struct {
	providers   map[string]payment.Provider
	intentRepo  repository.IntentRepository
	postService PostService
}

func NewWebhookService(providers map[string]payment.Provider, intentRepo repository.IntentRepository, postService PostService) WebhookService {
	return &webhookService{
		providers:   providers,
		intentRepo:  intentRepo,
		postService: postService,
	}
}

func (s *webhookService) HandleNotification(ctx context.Context, providerName string, payload []byte, signatureHeader string) error {
	provider, ok := s.providers[providerName]
	if !ok {
		return fmt.Errorf("unknown payment provider %q", providerName)
	}

	if !provider.VerifySignature(payload, signatureHeader) {
		return models.ErrUnauthorized
	}

	event, err := provider.ParseEvent(payload)
	if err != nil {
		return err
	}

	webhookEvents.WithLabelValues(providerName, event.Type).Inc()

	switch event.Type {
	case payment.EventConfirmed:
		return s.applyConfirmation(ctx, providerName, event)
	case payment.EventOverdue:
		// An unconfirmed intent never touched a post; record and move on.
		log.Printf("webhook: charge %s overdue (provider=%s)", event.ExternalRef, providerName)
		return s.intentRepo.MarkStatus(ctx, event.ExternalRef, models.IntentOverdue)
	case payment.EventDeleted:
		log.Printf("webhook: charge %s deleted (provider=%s)", event.ExternalRef, providerName)
		return s.intentRepo.MarkStatus(ctx, event.ExternalRef, models.IntentDeleted)
	default:
		log.Printf("webhook: ignoring event type for charge %s (provider=%s)", event.ExternalRef, providerName)
		return nil
	}
}

func (s *webhookService) applyConfirmation(ctx context.Context, providerName string, event *payment.Event) error {
	intent, err := s.intentRepo.GetByRef(ctx, event.ExternalRef)
	if err != nil {
		if !errors.Is(err, models.ErrIntentNotFound) {
			return err
		}
		// The provider metadata carries the full context, so a lost intent
		// row does not strand the payment.
		intent = s.reconstructIntent(providerName, event)
		if intent == nil {
			log.Printf("webhook: confirmed charge %s has no intent and no usable metadata, ignoring", event.ExternalRef)
			return nil
		}
	}

	if _, err := s.postService.ConfirmPayment(ctx, intent); err != nil {
		return err
	}

	return nil
}

func (s *webhookService) reconstructIntent(providerName string, event *payment.Event) *models.PaymentIntent {
	if event.TargetType == "" {
		return nil
	}

	intent := &models.PaymentIntent{
		ExternalRef: event.ExternalRef,
		Provider:    providerName,
		Phone:       event.Phone,
		Amount:      event.Amount,
		TargetType:  event.TargetType,
		Metadata:    event.Payload,
		Status:      models.IntentPending,
	}
	if event.TargetType == models.TargetRepost {
		if event.PostID == "" {
			return nil
		}
		intent.PostID = &event.PostID
	}

	return intent
}
