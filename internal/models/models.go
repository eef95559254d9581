package models

import (
	"encoding/json"
	"time"
)

// Post statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Post categories.
const (
	CategoryProduct       = "product"
	CategoryService       = "service"
	CategoryAnnouncement  = "announcement"
	CategoryJob           = "job"
	CategoryInformational = "informational"
)

// FreeMaxReposts caps reposts of the one free post per phone.
// PaidMaxReposts is the sentinel for paid posts: the cap never binds,
// every repost is gated by a fresh payment instead.
const (
	FreeMaxReposts = 3
	PaidMaxReposts = 1000000
)

type Post struct {
	PostID       string      `json:"postId" db:"post_id"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Price        *float64    `json:"price,omitempty" db:"price"`
	Category     string      `json:"category" db:"category"`
	ContactName  string      `json:"contactName" db:"contact_name"`
	ContactPhone string      `json:"contactPhone" db:"contact_phone"`
	Status       string      `json:"status" db:"status"`
	IsPaid       bool        `json:"isPaid" db:"is_paid"`
	PaymentRef   *string     `json:"paymentRef,omitempty" db:"payment_ref"`
	RepostCount  int         `json:"repostCount" db:"repost_count"`
	MaxReposts   int         `json:"maxReposts" db:"max_reposts"`
	ExpiresAt    *time.Time  `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
	Media        []PostMedia `json:"media" db:"-"`
}

type PostMedia struct {
	MediaID     string    `json:"mediaId" db:"media_id"`
	PostID      string    `json:"postId" db:"post_id"`
	URL         string    `json:"url" db:"url"`
	MediaType   string    `json:"mediaType" db:"media_type"`
	AspectRatio string    `json:"aspectRatio" db:"aspect_ratio"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Payment intent targets.
const (
	TargetNewPost = "new_post"
	TargetRepost  = "repost"
)

// Payment intent statuses.
const (
	IntentPending   = "pending"
	IntentConfirmed = "confirmed"
	IntentOverdue   = "overdue"
	IntentDeleted   = "deleted"
)

// PaymentIntent is a provider-side charge awaiting (or having received)
// confirmation. For TargetNewPost the post does not exist yet; its payload
// travels in Metadata so the webhook alone carries enough context to create it.
type PaymentIntent struct {
	ExternalRef string          `json:"externalRef" db:"external_ref"`
	Provider    string          `json:"provider" db:"provider"`
	Phone       string          `json:"phone" db:"phone"`
	Amount      float64         `json:"amount" db:"amount"`
	TargetType  string          `json:"targetType" db:"target_type"`
	PostID      *string         `json:"postId,omitempty" db:"post_id"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// PostPayload is the post data carried inside a new-post intent's metadata
// and echoed back on a payment-required response.
type PostPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price,omitempty"`
	Category     string   `json:"category"`
	ContactName  string   `json:"contactName"`
	ContactPhone string   `json:"contactPhone"`
}

// StatusCounts is the admin dashboard aggregate: posts per lifecycle status.
type StatusCounts struct {
	Pending  int `json:"pending" db:"pending"`
	Approved int `json:"approved" db:"approved"`
	Rejected int `json:"rejected" db:"rejected"`
	Total    int `json:"total" db:"total"`
}
