package payment

import "context"

// Provider names.
const (
	ProviderPix      = "pix"
	ProviderCheckout = "checkout"
)

// Normalized webhook event types. Everything a provider sends collapses into
// one of these four.
const (
	EventConfirmed = "confirmed"
	EventOverdue   = "overdue"
	EventDeleted   = "deleted"
	EventUnknown   = "unknown"
)

// ChargeRequest describes the charge to create. Target, phone and payload are
// attached as provider-level metadata so the webhook alone carries enough
// context to drive the lifecycle, without any lookup keyed on something other
// than the external reference.
type ChargeRequest struct {
	Amount      float64
	Description string
	Phone       string
	TargetType  string
	PostID      string
	Payload     []byte
}

// Charge is what the client needs to complete payment. PixCode/PaymentURL are
// set by the webhook-only provider, ClientSecret by the hosted-checkout one.
type Charge struct {
	ExternalRef  string `json:"externalRef"`
	Provider     string `json:"provider"`
	PixCode      string `json:"pixCode,omitempty"`
	PaymentURL   string `json:"paymentUrl,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// Event is a provider notification normalized into domain terms.
type Event struct {
	Type        string
	ExternalRef string
	Amount      float64
	TargetType  string
	PostID      string
	Phone       string
	Payload     []byte
}

// Provider abstracts one payment integration. The lifecycle manager never
// branches on which provider is behind the interface.
type Provider interface {
	Name() string
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	// VerifySignature authenticates a raw webhook body against the header
	// the provider signs it with. Must be called before ParseEvent.
	VerifySignature(payload []byte, signatureHeader string) bool
	ParseEvent(payload []byte) (*Event, error)
}

// chargeContext is the metadata blob round-tripped through the provider.
type chargeContext struct {
	Target  string `json:"target"`
	PostID  string `json:"postId,omitempty"`
	Phone   string `json:"phone"`
	Payload string `json:"payload,omitempty"`
}
