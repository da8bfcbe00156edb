package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/workhive/freelance-service/internal/config"
	"github.com/workhive/freelance-service/internal/handler"
	"github.com/workhive/freelance-service/internal/integrations/rates"
	"github.com/workhive/freelance-service/internal/replenish"
	"github.com/workhive/freelance-service/internal/repository"
	"github.com/workhive/freelance-service/internal/service"
	"github.com/workhive/freelance-service/internal/utils/email"
)

// topUpNotifier resolves a wallet to its owner and emails them about
// an executed top-up. Failures are logged, never propagated.
type topUpNotifier struct {
	repo   *repository.Repository
	sender *email.Sender
	log    *logrus.Logger
}

func (n *topUpNotifier) NotifyTopUp(walletID int64, amount, balance float64) {
	user, err := n.repo.FindUserByWalletID(walletID)
	if err != nil {
		n.log.Warnf("Top-up notification: wallet %d owner lookup failed: %v", walletID, err)
		return
	}
	if err := n.sender.SendTopUpNotification(user.Email, user.Username, amount, balance); err != nil {
		n.log.Warnf("Top-up notification failed for wallet %d: %v", walletID, err)
	}
}

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
	sender := email.NewSender(cfg, logger)
	ratesClient := rates.NewClient(cfg, logger)
	svc := service.NewService(repo, logger, cfg, sender, ratesClient)
	h := handler.NewHandler(svc)

	// Start the auto-replenish sweep
	notifier := &topUpNotifier{repo: repo, sender: sender, log: logger}
	sweeper := replenish.NewSweeper(repo, logger, notifier)
	if err := sweeper.Start(cfg.ReplenishSpec); err != nil {
		logger.Fatalf("Failed to schedule replenish sweep: %v", err)
	}
	defer sweeper.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
