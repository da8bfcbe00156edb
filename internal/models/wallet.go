package models

import "fmt"

// Wallet ties a user to their transaction ledger and replenish policy.
type Wallet struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Balance is the derived view over a wallet's ledger.
type Balance struct {
	Available float64 `json:"available"`
	Pending   float64 `json:"pending"`
	Total     float64 `json:"total"`
}

// AutoReplenishSettings is declarative top-up policy data. The
// triggering sweep lives in the replenish package, not here.
type AutoReplenishSettings struct {
	WalletID    int64   `json:"wallet_id"`
	Enabled     bool    `json:"enabled"`
	Threshold   float64 `json:"threshold"`
	TopUpAmount float64 `json:"top_up_amount"`
}

// Validate enforces threshold >= 0 and, when enabled, topUpAmount > 0.
func (s AutoReplenishSettings) Validate() error {
	if s.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative")
	}
	if s.Enabled && s.TopUpAmount <= 0 {
		return fmt.Errorf("top-up amount must be positive when auto-replenish is enabled")
	}
	return nil
}
