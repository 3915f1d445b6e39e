package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/vantrack/vantrack-api/internal/config"
	"github.com/vantrack/vantrack-api/internal/handler"
	"github.com/vantrack/vantrack-api/internal/integrations/ecb"
	"github.com/vantrack/vantrack-api/internal/integrations/gemini"
	"github.com/vantrack/vantrack-api/internal/middleware"
	"github.com/vantrack/vantrack-api/internal/repository"
	"github.com/vantrack/vantrack-api/internal/service"
	"github.com/vantrack/vantrack-api/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	aiClient := gemini.NewClient(cfg, logger)
	svc := service.NewService(repo, logger, cfg, aiClient)
	h := handler.NewHandler(svc, logger)
	ecbClient := ecb.NewClient(cfg, logger)
	mailer := email.NewSender(cfg, logger)

	// Budget alert sweep
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.BudgetAlertCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := svc.SendBudgetAlerts(ctx, mailer); err != nil {
			logger.Errorf("Budget alert sweep failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule budget alerts: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")
	// ECB reference rates endpoint
	api.HandleFunc("/rates", func(w http.ResponseWriter, r *http.Request) {
		rates, err := ecbClient.GetRates()
		if err != nil {
			logger.Errorf("Failed to get ECB rates: %v", err)
			http.Error(w, "Failed to get exchange rates", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(rates)
	}).Methods("GET")

	// Protected routes
	authRouter := api.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/auth/me", h.Me).Methods("GET")

	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions/balances", h.GetBalances).Methods("GET")
	authRouter.HandleFunc("/transactions/open-debts", h.GetOpenDebts).Methods("GET")
	authRouter.HandleFunc("/transactions/summary", h.GetAccountSummary).Methods("GET")
	authRouter.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	authRouter.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PATCH")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	authRouter.HandleFunc("/transactions/{id}/payments", h.GetDebtPayments).Methods("GET")

	authRouter.HandleFunc("/contacts", h.CreateContact).Methods("POST")
	authRouter.HandleFunc("/contacts", h.ListContacts).Methods("GET")
	authRouter.HandleFunc("/contacts/{id}", h.GetContact).Methods("GET")
	authRouter.HandleFunc("/contacts/{id}", h.UpdateContact).Methods("PATCH")
	authRouter.HandleFunc("/contacts/{id}", h.DeleteContact).Methods("DELETE")

	authRouter.HandleFunc("/messages", h.CreateMessage).Methods("POST")
	authRouter.HandleFunc("/messages", h.ListMessages).Methods("GET")
	authRouter.HandleFunc("/messages", h.ClearMessages).Methods("DELETE")
	authRouter.HandleFunc("/messages/{id}", h.DeleteMessage).Methods("DELETE")

	authRouter.HandleFunc("/drafts", h.CreateDraft).Methods("POST")
	authRouter.HandleFunc("/drafts", h.ListDrafts).Methods("GET")
	authRouter.HandleFunc("/drafts/batch", h.CreateDraftsBatch).Methods("POST")
	authRouter.HandleFunc("/drafts/{id}", h.GetDraft).Methods("GET")
	authRouter.HandleFunc("/drafts/{id}", h.UpdateDraft).Methods("PATCH")
	authRouter.HandleFunc("/drafts/{id}", h.DeleteDraft).Methods("DELETE")
	authRouter.HandleFunc("/drafts/{id}/confirm", h.ConfirmDraft).Methods("POST")
	authRouter.HandleFunc("/drafts/{id}/discard", h.DiscardDraft).Methods("POST")

	authRouter.HandleFunc("/budgets", h.CreateBudget).Methods("POST")
	authRouter.HandleFunc("/budgets", h.ListBudgets).Methods("GET")
	authRouter.HandleFunc("/budgets/{id}", h.GetBudget).Methods("GET")
	authRouter.HandleFunc("/budgets/{id}", h.UpdateBudget).Methods("PATCH")
	authRouter.HandleFunc("/budgets/{id}", h.DeleteBudget).Methods("DELETE")

	authRouter.HandleFunc("/ai/parse", h.ParseInput).Methods("POST")
	authRouter.HandleFunc("/insights/weekly-summary", h.WeeklyInsights).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// AI endpoints hold the connection for up to AI_TIMEOUT.
		WriteTimeout: cfg.AITimeout + 10*time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
