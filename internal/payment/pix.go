package payment

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

// PixProvider is the webhook-only integration: the charge is created
// server-side, the client gets a copy-paste Pix code and a payment link, and
// the only trusted confirmation is the webhook.
type PixProvider struct {
	cfg    config.Pix
	client *http.Client
}

func NewPixProvider(cfg config.Pix) *PixProvider {
	return &PixProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewPixProviderWithClient is used by tests to point at an httptest server.
func NewPixProviderWithClient(cfg config.Pix, client *http.Client) *PixProvider {
	return &PixProvider{cfg: cfg, client: client}
}

func (p *PixProvider) Name() string {
	return ProviderPix
}

type pixCustomerRequest struct {
	Name        string `json:"name"`
	MobilePhone string `json:"mobilePhone"`
}

type pixCustomerResponse struct {
	ID string `json:"id"`
}

type pixChargeRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	Description       string  `json:"description"`
	DueDate           string  `json:"dueDate"`
	ExternalReference string  `json:"externalReference"`
}

type pixChargeResponse struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoiceUrl"`
	PixCode    string `json:"payload"`
}

func (p *PixProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	customer, err := p.createCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	contextBlob, err := json.Marshal(chargeContext{
		Target:  req.TargetType,
		PostID:  req.PostID,
		Phone:   req.Phone,
		Payload: string(req.Payload),
	})
	if err != nil {
		return nil, fmt.Errorf("could not encode charge context: %w", err)
	}

	chargeReq := pixChargeRequest{
		Customer:          customer,
		BillingType:       "PIX",
		Value:             req.Amount,
		Description:       req.Description,
		DueDate:           time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		ExternalReference: string(contextBlob),
	}

	var chargeResp pixChargeResponse
	if err := p.post(ctx, "/payments", chargeReq, &chargeResp); err != nil {
		return nil, err
	}

	return &Charge{
		ExternalRef: chargeResp.ID,
		Provider:    ProviderPix,
		PixCode:     chargeResp.PixCode,
		PaymentURL:  chargeResp.InvoiceURL,
	}, nil
}

func (p *PixProvider) createCustomer(ctx context.Context, req ChargeRequest) (string, error) {
	name := "Anunciante " + req.Phone
	var resp pixCustomerResponse
	if err := p.post(ctx, "/customers", pixCustomerRequest{Name: name, MobilePhone: req.Phone}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (p *PixProvider) post(ctx context.Context, path string, body, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("access_token", p.cfg.APIKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pix provider unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("could not read provider response: %w", err)
	}

	if httpResp.StatusCode >= 300 {
		return &models.ProviderError{
			Provider:   ProviderPix,
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("could not decode provider response: %w", err)
	}

	return nil
}

// VerifySignature compares the webhook access token header with the shared
// secret in constant time.
func (p *PixProvider) VerifySignature(payload []byte, signatureHeader string) bool {
	if p.cfg.AccessToken == "" || signatureHeader == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signatureHeader), []byte(p.cfg.AccessToken)) == 1
}

type pixWebhookPayload struct {
	Event   string `json:"event"`
	Payment struct {
		ID                string  `json:"id"`
		Value             float64 `json:"value"`
		ExternalReference string  `json:"externalReference"`
	} `json:"payment"`
}

func (p *PixProvider) ParseEvent(payload []byte) (*Event, error) {
	var raw pixWebhookPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("could not decode pix webhook: %w", err)
	}

	event := &Event{
		ExternalRef: raw.Payment.ID,
		Amount:      raw.Payment.Value,
	}

	switch raw.Event {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED":
		event.Type = EventConfirmed
	case "PAYMENT_OVERDUE":
		event.Type = EventOverdue
	case "PAYMENT_DELETED":
		event.Type = EventDeleted
	default:
		event.Type = EventUnknown
	}

	if raw.Payment.ExternalReference != "" {
		var cc chargeContext
		if err := json.Unmarshal([]byte(raw.Payment.ExternalReference), &cc); err == nil {
			event.TargetType = cc.Target
			event.PostID = cc.PostID
			event.Phone = cc.Phone
			event.Payload = []byte(cc.Payload)
		}
	}

	return event, nil
}
