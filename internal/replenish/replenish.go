// Package replenish runs the auto-replenish sweep: wallets whose
// available balance has fallen below their configured threshold
// receive a top-up credit. The policy itself is declarative data; this
// is the side-effecting collaborator that acts on it.
package replenish

import (
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/workhive/freelance-service/internal/ledger"
	"github.com/workhive/freelance-service/internal/models"
)

// Store is what the sweep needs from the persistence layer.
type Store interface {
	ListReplenishWallets() ([]models.AutoReplenishSettings, error)
	ListTransactions(walletID int64) ([]models.Transaction, error)
	CreateTransaction(tx *models.Transaction) error
}

// Notifier announces executed top-ups, best-effort.
type Notifier interface {
	NotifyTopUp(walletID int64, amount, balance float64)
}

// Sweeper periodically tops up under-threshold wallets.
type Sweeper struct {
	store    Store
	log      *logrus.Logger
	notifier Notifier
	cron     *cron.Cron
}

// NewSweeper initializes a sweeper. notifier may be nil.
func NewSweeper(store Store, log *logrus.Logger, notifier Notifier) *Sweeper {
	return &Sweeper{store: store, log: log, notifier: notifier}
}

// Start schedules the sweep on the given cron spec and runs it until
// Stop is called.
func (s *Sweeper) Start(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.Sweep(); err != nil {
			s.log.Errorf("Replenish sweep failed: %v", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Auto-replenish sweep scheduled: %s", spec)
	return nil
}

// Stop halts the scheduled sweep.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one pass over all enabled wallets. A wallet is topped up
// when its available balance is strictly below its threshold. Errors
// on one wallet do not abort the rest of the pass.
func (s *Sweeper) Sweep() error {
	settings, err := s.store.ListReplenishWallets()
	if err != nil {
		return err
	}

	for _, cfg := range settings {
		if !cfg.Enabled || cfg.TopUpAmount <= 0 {
			continue
		}
		txs, err := s.store.ListTransactions(cfg.WalletID)
		if err != nil {
			s.log.Errorf("Replenish: failed to read ledger for wallet %d: %v", cfg.WalletID, err)
			continue
		}
		balance := ledger.ComputeBalance(txs)
		if balance.Available >= cfg.Threshold {
			continue
		}

		tx := &models.Transaction{
			ID:          uuid.NewString(),
			WalletID:    cfg.WalletID,
			Type:        models.DirectionCredit,
			Amount:      cfg.TopUpAmount,
			Description: "Auto replenish top-up",
			Status:      models.TxCompleted,
		}
		if err := s.store.CreateTransaction(tx); err != nil {
			s.log.Errorf("Replenish: failed to top up wallet %d: %v", cfg.WalletID, err)
			continue
		}

		newBalance := balance.Available + cfg.TopUpAmount
		s.log.Infof("Wallet %d topped up by %.2f (balance %.2f was below threshold %.2f)",
			cfg.WalletID, cfg.TopUpAmount, balance.Available, cfg.Threshold)
		if s.notifier != nil {
			s.notifier.NotifyTopUp(cfg.WalletID, cfg.TopUpAmount, newBalance)
		}
	}
	return nil
}
