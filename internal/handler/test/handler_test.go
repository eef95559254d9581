package test

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	handlers "github.com/tiagoriveira/jacupemba-ai-sub001/internal/handler"
)

type handlerMocks struct {
	quota   *MockQuotaService
	posts   *MockPostService
	webhook *MockWebhookService
	intents *MockIntentRepository
	stats   *MockStatsRepository
}

// newTestRouter wires the handlers under test into the same routes the
// server registers, so path variables resolve the same way.
func newTestRouter() (*mux.Router, *handlerMocks) {
	mocks := &handlerMocks{
		quota:   new(MockQuotaService),
		posts:   new(MockPostService),
		webhook: new(MockWebhookService),
		intents: new(MockIntentRepository),
		stats:   new(MockStatsRepository),
	}

	h := &handlers.Handlers{
		QuotaService:   mocks.quota,
		PostService:    mocks.posts,
		WebhookService: mocks.webhook,
		IntentRepo:     mocks.intents,
		StatsRepo:      mocks.stats,
		Cfg: &config.Config{
			PostPrice:     30.00,
			PostTTL:       48 * time.Hour,
			MaxUploadSize: 1 << 20,
		},
		Validate: validator.New(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/posts/first-check", h.CheckFirstPost).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/mine", h.ListMyPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", h.GetPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", h.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id}", h.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id}", h.DeletePost).Methods(http.MethodDelete)
	router.HandleFunc("/api/posts/{id}/repost", h.RequestRepost).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id}/media", h.AttachMedia).Methods(http.MethodPost)
	router.HandleFunc("/api/webhooks/pix", h.PixWebhook).Methods(http.MethodPost)
	router.HandleFunc("/api/webhooks/checkout", h.CheckoutWebhook).Methods(http.MethodPost)
	router.HandleFunc("/api/payments/checkout-return", h.CheckoutReturn).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/posts", h.ListModeration).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/posts/{id}/approve", h.ApprovePost).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/posts/{id}/reject", h.RejectPost).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/stats", h.Stats).Methods(http.MethodGet)

	return router, mocks
}
