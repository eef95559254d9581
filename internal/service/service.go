package service

import (
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/payment"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/repository"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/storage"
)

type Service struct {
	Quota   QuotaService
	Post    PostService
	Webhook WebhookService
}

func NewService(repo *repository.Repository, providers map[string]payment.Provider, storage storage.Storage, cfg *config.Config) *Service {
	postService := NewPostService(repo, providers, storage, cfg)

	return &Service{
		Quota:   NewQuotaService(repo.Post),
		Post:    postService,
		Webhook: NewWebhookService(providers, repo.Intent, postService),
	}
}
