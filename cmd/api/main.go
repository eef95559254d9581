package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tiagoriveira/jacupemba-ai-sub001/cmd/app"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/config"
	handlers "github.com/tiagoriveira/jacupemba-ai-sub001/internal/handler"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/middleware"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.AdminSessionSecret == "" {
		log.Fatal("ADMIN_SESSION_SECRET is not set")
	}

	db, repo, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(db, repo, services, cfg)

	router := mux.NewRouter()

	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/posts", handler.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts", handler.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/first-check", handler.CheckFirstPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/mine", handler.ListMyPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", handler.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", handler.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id}/repost", handler.RequestRepost).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/media", handler.AttachMedia).Methods(http.MethodPost)

	api.HandleFunc("/webhooks/pix", handler.PixWebhook).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/checkout", handler.CheckoutWebhook).Methods(http.MethodPost)
	api.HandleFunc("/payments/checkout-return", handler.CheckoutReturn).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(middleware.AdminAuthMiddleware(cfg)))
	admin.HandleFunc("/posts", handler.ListModeration).Methods(http.MethodGet)
	admin.HandleFunc("/posts/{id}/approve", handler.ApprovePost).Methods(http.MethodPost)
	admin.HandleFunc("/posts/{id}/reject", handler.RejectPost).Methods(http.MethodPost)
	admin.HandleFunc("/stats", handler.Stats).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.MetricsMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("server listening on %s (database %s)", addr, cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
