package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

// CheckoutProvider is the hosted-session integration: the server creates a
// checkout session, the client renders it from the returned secret. The
// success redirect is a UI hint only; the signed webhook is the sole source
// of truth for confirmation.
type CheckoutProvider struct {
	cfg    config.Checkout
	client *http.Client
	now    func() time.Time
}

// signatureTolerance bounds how old a signed webhook timestamp may be.
const signatureTolerance = 5 * time.Minute

func NewCheckoutProvider(cfg config.Checkout) *CheckoutProvider {
	return &CheckoutProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
}

// NewCheckoutProviderWithClient is used by tests to point at an httptest
// server and pin the clock.
func NewCheckoutProviderWithClient(cfg config.Checkout, client *http.Client, now func() time.Time) *CheckoutProvider {
	return &CheckoutProvider{cfg: cfg, client: client, now: now}
}

func (p *CheckoutProvider) Name() string {
	return ProviderCheckout
}

type checkoutSessionRequest struct {
	AmountCents int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
	ReturnURL   string            `json:"return_url"`
	UIMode      string            `json:"ui_mode"`
}

type checkoutSessionResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	URL          string `json:"url"`
}

func (p *CheckoutProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	sessionReq := checkoutSessionRequest{
		AmountCents: int64(math.Round(req.Amount * 100)),
		Currency:    "brl",
		Description: req.Description,
		Metadata: map[string]string{
			"target": req.TargetType,
			"postId": req.PostID,
			"phone":  req.Phone,
		},
		ReturnURL: p.cfg.ReturnURL,
		UIMode:    "embedded",
	}
	if len(req.Payload) > 0 {
		sessionReq.Metadata["payload"] = string(req.Payload)
	}

	encoded, err := json.Marshal(sessionReq)
	if err != nil {
		return nil, fmt.Errorf("could not encode session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/checkout/sessions", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("could not build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout provider unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read provider response: %w", err)
	}

	if httpResp.StatusCode >= 300 {
		return nil, &models.ProviderError{
			Provider:   ProviderCheckout,
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	var sessionResp checkoutSessionResponse
	if err := json.Unmarshal(respBody, &sessionResp); err != nil {
		return nil, fmt.Errorf("could not decode provider response: %w", err)
	}

	return &Charge{
		ExternalRef:  sessionResp.ID,
		Provider:     ProviderCheckout,
		ClientSecret: sessionResp.ClientSecret,
		PaymentURL:   sessionResp.URL,
	}, nil
}

// VerifySignature checks a "t=<unix>,v1=<hex hmac>" header: the HMAC-SHA256
// of "<t>.<body>" under the signing secret, with the timestamp inside the
// replay tolerance window.
func (p *CheckoutProvider) VerifySignature(payload []byte, signatureHeader string) bool {
	if p.cfg.SigningSecret == "" || signatureHeader == "" {
		return false
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := p.now().Sub(time.Unix(unix, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(p.cfg.SigningSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}
	return false
}

// Sign produces a valid signature header for a payload. Exported for tests.
func (p *CheckoutProvider) Sign(payload []byte, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(p.cfg.SigningSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

type checkoutWebhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID          string            `json:"id"`
			AmountTotal int64             `json:"amount_total"`
			Metadata    map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (p *CheckoutProvider) ParseEvent(payload []byte) (*Event, error) {
	var raw checkoutWebhookPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("could not decode checkout webhook: %w", err)
	}

	object := raw.Data.Object
	event := &Event{
		ExternalRef: object.ID,
		Amount:      float64(object.AmountTotal) / 100,
		TargetType:  object.Metadata["target"],
		PostID:      object.Metadata["postId"],
		Phone:       object.Metadata["phone"],
	}
	if payloadBlob := object.Metadata["payload"]; payloadBlob != "" {
		event.Payload = []byte(payloadBlob)
	}

	switch raw.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		event.Type = EventConfirmed
	case "checkout.session.expired":
		event.Type = EventOverdue
	case "checkout.session.async_payment_failed":
		event.Type = EventDeleted
	default:
		event.Type = EventUnknown
	}

	return event, nil
}
