package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/payment"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/phone"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/repository"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/storage"
)

type CreatePostRequest struct {
	models.PostPayload
	// PaymentRef resubmits a request after the referenced charge was
	// confirmed by webhook.
	PaymentRef string
	// PaymentMethod selects the provider for the charge when one is needed.
	// Defaults to pix.
	PaymentMethod string
}

// PaymentRequired is a typed outcome, not an error: the caller must complete
// the returned charge and retry (new post) or wait for the webhook (repost).
type PaymentRequired struct {
	Price    float64             `json:"price"`
	Charge   *payment.Charge     `json:"payment"`
	PostData *models.PostPayload `json:"postData,omitempty"`
}

// CreatePostResult carries either the created post or a payment requirement.
type CreatePostResult struct {
	Post    *models.Post
	Payment *PaymentRequired
}

// RepostResult carries either the reposted post or a payment requirement.
type RepostResult struct {
	Post    *models.Post
	Payment *PaymentRequired
}

type PostService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*CreatePostResult, error)
	RequestRepost(ctx context.Context, postID, rawPhone, paymentMethod string) (*RepostResult, error)
	// ConfirmPayment is the idempotent entry point driven by the webhook
	// reconciler. Safe to invoke twice for the same confirmed intent.
	ConfirmPayment(ctx context.Context, intent *models.PaymentIntent) (*models.Post, error)
	Approve(ctx context.Context, postID string) error
	Reject(ctx context.Context, postID string) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	ListByPhone(ctx context.Context, rawPhone string) ([]models.PostView, error)
	ListActive(ctx context.Context, limit, offset int) ([]models.PostView, error)
	ListModeration(ctx context.Context, status string, limit, offset int) ([]models.Post, error)
	AttachMedia(ctx context.Context, postID, rawPhone, fileName, mediaType, aspectRatio string, file io.Reader, size int64) (*models.PostMedia, error)
	DeletePost(ctx context.Context, postID, rawPhone string) error
}

type postService struct {
	postRepo   repository.PostRepository
	intentRepo repository.IntentRepository
	mediaRepo  repository.MediaRepository
	providers  map[string]payment.Provider
	storage    storage.Storage
	cfg        *config.Config
	now        func() time.Time
}

func NewPostService(repo *repository.Repository, providers map[string]payment.Provider, storage storage.Storage, cfg *config.Config) PostService {
	return &postService{
		postRepo:   repo.Post,
		intentRepo: repo.Intent,
		mediaRepo:  repo.Media,
		providers:  providers,
		storage:    storage,
		cfg:        cfg,
		now:        time.Now,
	}
}

func validCategory(category string) bool {
	switch category {
	case models.CategoryProduct, models.CategoryService, models.CategoryAnnouncement,
		models.CategoryJob, models.CategoryInformational:
		return true
	}
	return false
}

func (p *postService) provider(method string) (payment.Provider, error) {
	if method == "" {
		method = payment.ProviderPix
	}
	provider, ok := p.providers[method]
	if !ok {
		return nil, &models.ValidationError{Field: "paymentMethod", Detail: "unknown payment method " + method}
	}
	return provider, nil
}

func (p *postService) validatePayload(payload *models.PostPayload) error {
	payload.ContactPhone = phone.Canonicalize(payload.ContactPhone)

	switch {
	case strings.TrimSpace(payload.Title) == "":
		return &models.ValidationError{Field: "title", Detail: "required"}
	case strings.TrimSpace(payload.Description) == "":
		return &models.ValidationError{Field: "description", Detail: "required"}
	case strings.TrimSpace(payload.ContactName) == "":
		return &models.ValidationError{Field: "contactName", Detail: "required"}
	case !phone.IsValid(payload.ContactPhone):
		return &models.ValidationError{Field: "contactPhone", Detail: "must contain 10 to 13 digits"}
	case !validCategory(payload.Category):
		return &models.ValidationError{Field: "category", Detail: "unknown category " + payload.Category}
	}

	return nil
}

func postFromPayload(payload *models.PostPayload) *models.Post {
	return &models.Post{
		Title:        payload.Title,
		Description:  payload.Description,
		Price:        payload.Price,
		Category:     payload.Category,
		ContactName:  payload.ContactName,
		ContactPhone: payload.ContactPhone,
		Status:       models.StatusPending,
	}
}

func (p *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*CreatePostResult, error) {
	if err := p.validatePayload(&req.PostPayload); err != nil {
		return nil, err
	}

	if req.PaymentRef != "" {
		return p.createPaidPost(ctx, req)
	}

	// Try to claim the lifetime free slot first. Losing the race is the
	// same as never having had it.
	post := postFromPayload(&req.PostPayload)
	post.IsPaid = false
	post.MaxReposts = models.FreeMaxReposts

	claimed, err := p.postRepo.CreateFirstFree(ctx, post)
	if err != nil {
		return nil, err
	}
	if claimed {
		return &CreatePostResult{Post: post}, nil
	}

	// Not the first post: charge first, nothing persisted to posts. The
	// payload rides inside the intent so the webhook can create the post.
	required, err := p.requirePayment(ctx, req.PaymentMethod, models.TargetNewPost, "", &req.PostPayload,
		fmt.Sprintf("Anúncio: %s", req.Title))
	if err != nil {
		return nil, err
	}
	required.PostData = &req.PostPayload

	return &CreatePostResult{Payment: required}, nil
}

func (p *postService) createPaidPost(ctx context.Context, req CreatePostRequest) (*CreatePostResult, error) {
	// Resubmission after a webhook already created the post is a no-op.
	if existing, err := p.postRepo.GetByPaymentRef(ctx, req.PaymentRef); err == nil {
		return &CreatePostResult{Post: existing}, nil
	}

	intent, err := p.intentRepo.GetByRef(ctx, req.PaymentRef)
	if err != nil {
		return nil, err
	}
	if intent.Status != models.IntentConfirmed {
		return nil, &models.ValidationError{Field: "paymentRef", Detail: "payment not confirmed"}
	}
	if intent.Phone != req.ContactPhone || intent.TargetType != models.TargetNewPost {
		return nil, models.ErrForbidden
	}

	post := postFromPayload(&req.PostPayload)
	post.IsPaid = true
	post.MaxReposts = models.PaidMaxReposts
	post.PaymentRef = &req.PaymentRef

	if err := p.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, models.ErrDuplicatePaymentRef) {
			return p.existingPaidPost(ctx, req.PaymentRef)
		}
		return nil, err
	}

	return &CreatePostResult{Post: post}, nil
}

// existingPaidPost resolves a payment reference that lost the insert race to
// a concurrent webhook delivery or resubmission.
func (p *postService) existingPaidPost(ctx context.Context, paymentRef string) (*CreatePostResult, error) {
	existing, err := p.postRepo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return nil, err
	}
	return &CreatePostResult{Post: existing}, nil
}

func (p *postService) requirePayment(ctx context.Context, method, target, postID string, payload *models.PostPayload, description string) (*PaymentRequired, error) {
	provider, err := p.provider(method)
	if err != nil {
		return nil, err
	}

	var metadata []byte
	var intentPhone string
	if payload != nil {
		metadata, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("could not encode post payload: %w", err)
		}
		intentPhone = payload.ContactPhone
	}

	chargeReq := payment.ChargeRequest{
		Amount:      p.cfg.PostPrice,
		Description: description,
		Phone:       intentPhone,
		TargetType:  target,
		PostID:      postID,
		Payload:     metadata,
	}

	charge, err := provider.CreateCharge(ctx, chargeReq)
	if err != nil {
		// Provider failure leaves no partial state: no intent, no post.
		return nil, err
	}

	intent := &models.PaymentIntent{
		ExternalRef: charge.ExternalRef,
		Provider:    provider.Name(),
		Phone:       intentPhone,
		Amount:      p.cfg.PostPrice,
		TargetType:  target,
		Metadata:    metadata,
		Status:      models.IntentPending,
	}
	if postID != "" {
		intent.PostID = &postID
	}

	if err := p.intentRepo.CreateSuperseding(ctx, intent); err != nil {
		return nil, err
	}

	return &PaymentRequired{Price: p.cfg.PostPrice, Charge: charge}, nil
}

func (p *postService) RequestRepost(ctx context.Context, postID, rawPhone, paymentMethod string) (*RepostResult, error) {
	digits := phone.Canonicalize(rawPhone)

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.ContactPhone != digits {
		return nil, models.ErrForbidden
	}

	// Reposting only ever applies to an already-expired post. A post that
	// was never approved has no expiry and cannot be reposted either.
	if post.ExpiresAt == nil || post.ExpiresAt.After(p.now()) {
		return nil, models.ErrNotExpired
	}

	if post.IsPaid {
		payload := models.PostPayload{ContactPhone: digits}
		required, err := p.requirePayment(ctx, paymentMethod, models.TargetRepost, post.PostID, &payload,
			fmt.Sprintf("Repostagem: %s", post.Title))
		if err != nil {
			return nil, err
		}
		return &RepostResult{Payment: required}, nil
	}

	if err := p.postRepo.IncrementFreeRepost(ctx, post.PostID); err != nil {
		return nil, err
	}

	updated, err := p.postRepo.GetByID(ctx, post.PostID)
	if err != nil {
		return nil, err
	}

	return &RepostResult{Post: updated}, nil
}

func (p *postService) ConfirmPayment(ctx context.Context, intent *models.PaymentIntent) (*models.Post, error) {
	switch intent.TargetType {
	case models.TargetNewPost:
		return p.confirmNewPost(ctx, intent)
	case models.TargetRepost:
		return p.confirmRepost(ctx, intent)
	default:
		return nil, fmt.Errorf("unknown intent target %q", intent.TargetType)
	}
}

func (p *postService) confirmNewPost(ctx context.Context, intent *models.PaymentIntent) (*models.Post, error) {
	// A post already carrying this reference means a duplicate delivery.
	if existing, err := p.postRepo.GetByPaymentRef(ctx, intent.ExternalRef); err == nil {
		if _, err := p.intentRepo.Consume(ctx, intent.ExternalRef); err != nil {
			return nil, err
		}
		return existing, nil
	}

	var payload models.PostPayload
	if err := json.Unmarshal(intent.Metadata, &payload); err != nil {
		return nil, fmt.Errorf("could not decode intent metadata: %w", err)
	}

	post := postFromPayload(&payload)
	post.IsPaid = true
	post.MaxReposts = models.PaidMaxReposts
	post.PaymentRef = &intent.ExternalRef

	// The read above is only a fast path: two concurrent deliveries can both
	// miss it. The unique index on payment_ref makes the insert itself the
	// duplicate gate; the loser falls back to the post the winner created.
	if err := p.postRepo.Create(ctx, post); err != nil {
		if !errors.Is(err, models.ErrDuplicatePaymentRef) {
			return nil, err
		}
		existing, err := p.postRepo.GetByPaymentRef(ctx, intent.ExternalRef)
		if err != nil {
			return nil, err
		}
		if _, err := p.intentRepo.Consume(ctx, intent.ExternalRef); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if _, err := p.intentRepo.Consume(ctx, intent.ExternalRef); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) confirmRepost(ctx context.Context, intent *models.PaymentIntent) (*models.Post, error) {
	if intent.PostID == nil {
		return nil, fmt.Errorf("repost intent %s carries no post id", intent.ExternalRef)
	}

	expiresAt := p.now().Add(p.cfg.PostTTL)

	// The guarded update mutates the post first; consuming the intent comes
	// after. A crash in between leaves the intent pending, and the retry
	// finds the reference already recorded and changes nothing.
	applied, err := p.postRepo.ApplyRepostPayment(ctx, *intent.PostID, intent.ExternalRef, expiresAt)
	if err != nil {
		return nil, err
	}

	if _, err := p.intentRepo.Consume(ctx, intent.ExternalRef); err != nil {
		return nil, err
	}

	post, err := p.postRepo.GetByID(ctx, *intent.PostID)
	if err != nil {
		return nil, err
	}

	if !applied && post.PaymentRef != nil && *post.PaymentRef != intent.ExternalRef {
		return nil, fmt.Errorf("repost payment %s not applied to post %s", intent.ExternalRef, post.PostID)
	}

	return post, nil
}

func (p *postService) Approve(ctx context.Context, postID string) error {
	return p.postRepo.Approve(ctx, postID, p.now().Add(p.cfg.PostTTL))
}

func (p *postService) Reject(ctx context.Context, postID string) error {
	return p.postRepo.Reject(ctx, postID)
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	media, err := p.mediaRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Media = media

	return post, nil
}

func (p *postService) ListByPhone(ctx context.Context, rawPhone string) ([]models.PostView, error) {
	digits := phone.Canonicalize(rawPhone)

	posts, err := p.postRepo.GetByPhone(ctx, digits)
	if err != nil {
		return nil, err
	}

	return p.toViews(ctx, posts)
}

func (p *postService) ListActive(ctx context.Context, limit, offset int) ([]models.PostView, error) {
	posts, err := p.postRepo.GetApproved(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return p.toViews(ctx, posts)
}

func (p *postService) ListModeration(ctx context.Context, status string, limit, offset int) ([]models.Post, error) {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return nil, &models.ValidationError{Field: "status", Detail: "unknown status " + status}
	}

	return p.postRepo.GetByStatus(ctx, status, limit, offset)
}

func (p *postService) toViews(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	now := p.now()
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		media, err := p.mediaRepo.GetByPostID(ctx, posts[i].PostID)
		if err != nil {
			return nil, err
		}
		posts[i].Media = media
		views = append(views, models.NewPostView(&posts[i], now))
	}
	return views, nil
}

func (p *postService) AttachMedia(ctx context.Context, postID, rawPhone, fileName, mediaType, aspectRatio string, file io.Reader, size int64) (*models.PostMedia, error) {
	digits := phone.Canonicalize(rawPhone)

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.ContactPhone != digits {
		return nil, models.ErrForbidden
	}

	if mediaType != "image" && mediaType != "video" {
		return nil, &models.ValidationError{Field: "mediaType", Detail: "must be image or video"}
	}
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	objectName, mediaURL, err := p.storage.UploadMedia(ctx, postID, fileName, file, size)
	if err != nil {
		return nil, fmt.Errorf("could not upload media: %w", err)
	}

	media := &models.PostMedia{
		PostID:      postID,
		URL:         mediaURL,
		MediaType:   mediaType,
		AspectRatio: aspectRatio,
	}

	if err := p.mediaRepo.Create(ctx, media); err != nil {
		if delErr := p.storage.DeleteMedia(ctx, objectName); delErr != nil {
			log.Printf("orphaned media object %s after failed record: %v", objectName, delErr)
		}
		return nil, fmt.Errorf("could not record media: %w", err)
	}

	return media, nil
}

func (p *postService) DeletePost(ctx context.Context, postID, rawPhone string) error {
	digits := phone.Canonicalize(rawPhone)

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.ContactPhone != digits {
		return models.ErrForbidden
	}

	if err := p.mediaRepo.DeleteByPostID(ctx, postID); err != nil {
		return err
	}

	return p.postRepo.Delete(ctx, postID)
}
