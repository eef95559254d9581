package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/database"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/repository"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/service"
)

type Handlers struct {
	QuotaService   service.QuotaService
	PostService    service.PostService
	WebhookService service.WebhookService
	IntentRepo     repository.IntentRepository
	StatsRepo      repository.StatsRepository
	DB             *database.DB
	Cfg            *config.Config
	Validate       *validator.Validate
}

func NewHandlers(db *database.DB, repo *repository.Repository, services *service.Service, cfg *config.Config) *Handlers {
	return &Handlers{
		QuotaService:   services.Quota,
		PostService:    services.Post,
		WebhookService: services.Webhook,
		IntentRepo:     repo.Intent,
		StatsRepo:      repo.Stats,
		DB:             db,
		Cfg:            cfg,
		Validate:       validator.New(),
	}
}

type contextKey string

// AdminIDKey carries the admin identifier extracted from the external
// back-office session token.
const AdminIDKey contextKey = "adminID"

// AdminID returns the admin identifier from the request context.
func AdminID(ctx context.Context) string {
	id, _ := ctx.Value(AdminIDKey).(string)
	return id
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(); err != nil {
		WriteError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
