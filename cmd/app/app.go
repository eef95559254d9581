package app

import (
	"log"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/database"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/payment"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/repository"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/service"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/storage"
)

func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("could not initialize MinIO: %v", err)
	}

	repo := repository.NewRepository(db.DB)

	providers := map[string]payment.Provider{
		payment.ProviderPix:      payment.NewPixProvider(cfg.Pix),
		payment.ProviderCheckout: payment.NewCheckoutProvider(cfg.Checkout),
	}

	services := service.NewService(repo, providers, minioClient, cfg)

	return db, repo, services
}
