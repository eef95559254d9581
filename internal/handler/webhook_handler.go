package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/payment"
)

// Webhook signature headers per provider.
const (
	pixTokenHeader          = "X-Webhook-Token"
	checkoutSignatureHeader = "X-Signature"
)

const maxWebhookBody = 1 << 20 // 1 MiB

type webhookAck struct {
	Received bool `json:"received"`
}

func (h *Handlers) PixWebhook(w http.ResponseWriter, r *http.Request) {
	h.handleWebhook(w, r, payment.ProviderPix, r.Header.Get(pixTokenHeader))
}

func (h *Handlers) CheckoutWebhook(w http.ResponseWriter, r *http.Request) {
	h.handleWebhook(w, r, payment.ProviderCheckout, r.Header.Get(checkoutSignatureHeader))
}

func (h *Handlers) handleWebhook(w http.ResponseWriter, r *http.Request, provider, signature string) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		WriteError(w, "could not read payload", http.StatusBadRequest)
		return
	}

	err = h.WebhookService.HandleNotification(r.Context(), provider, body, signature)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			WriteError(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		// No ack: the provider will retry, and processing is idempotent.
		WriteError(w, "processing failed", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, webhookAck{Received: true}, http.StatusOK)
}

// CheckoutReturn serves the client redirect after a hosted checkout session.
// It only reads intent status: the redirect is a UI hint, never proof of
// payment. The webhook alone mutates lifecycle state.
func (h *Handlers) CheckoutReturn(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		WriteError(w, "session_id query parameter is required", http.StatusBadRequest)
		return
	}

	intent, err := h.IntentRepo.GetByRef(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"status": intent.Status,
		"paid":   intent.Status == models.IntentConfirmed,
	}, http.StatusOK)
}
