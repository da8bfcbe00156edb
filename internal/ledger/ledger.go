// Package ledger derives balance views from an append-only
// transaction list. All functions are pure: they take fully-resolved
// in-memory collections, perform no I/O, and never mutate their input.
package ledger

import (
	"strings"

	"github.com/workhive/freelance-service/internal/models"
	"github.com/workhive/freelance-service/internal/utils"
)

// AllStatuses is the sentinel that disables the status filter.
const AllStatuses = "All"

// Options tunes the aggregation policy.
//
// DirectionalPending subtracts pending debits from the pending bucket
// instead of adding them. The default (false) reproduces the shipped
// behavior, which sums pending amounts regardless of direction. That
// looks like a latent bug upstream, so the corrected rule lives behind
// this flag rather than silently replacing the observed contract.
type Options struct {
	DirectionalPending bool
}

// ComputeBalance folds a transaction list into the three derived
// views. Order-independent; malformed amounts (negative, NaN) are
// coerced to 0 rather than surfaced, matching the tolerant behavior
// of the client this replaces.
//
// Available sums credits minus debits over every transaction
// regardless of status. Pending sums amounts with status "pending".
// Total is their sum.
func ComputeBalance(txs []models.Transaction) models.Balance {
	return ComputeBalanceOpts(txs, Options{})
}

// ComputeBalanceOpts is ComputeBalance with an explicit policy.
func ComputeBalanceOpts(txs []models.Transaction, opts Options) models.Balance {
	var b models.Balance
	for _, tx := range txs {
		amount := utils.CoerceAmount(tx.Amount)
		switch tx.Type {
		case models.DirectionCredit:
			b.Available += amount
		case models.DirectionDebit:
			b.Available -= amount
		}
		if tx.Status == models.TxPending {
			if opts.DirectionalPending && tx.Type == models.DirectionDebit {
				b.Pending -= amount
			} else {
				b.Pending += amount
			}
		}
	}
	b.Total = b.Available + b.Pending
	return b
}

// Summary holds categorized totals over a transaction list.
type Summary struct {
	PendingTotal   float64 `json:"pending_total"`
	CompletedTotal float64 `json:"completed_total"`
	CreditTotal    float64 `json:"credit_total"`
	DebitTotal     float64 `json:"debit_total"`
	Count          int     `json:"count"`
}

// Summarize buckets transaction amounts by status and direction.
func Summarize(txs []models.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		amount := utils.CoerceAmount(tx.Amount)
		switch tx.Status {
		case models.TxPending:
			s.PendingTotal += amount
		case models.TxCompleted:
			s.CompletedTotal += amount
		}
		switch tx.Type {
		case models.DirectionCredit:
			s.CreditTotal += amount
		case models.DirectionDebit:
			s.DebitTotal += amount
		}
		s.Count++
	}
	return s
}

// FilterTransactions returns the subsequence matching both filters,
// in the original order. statusFilter is a case-insensitive equality
// match; textFilter is a case-insensitive substring match over the
// description. "All" or the empty string disables a filter.
func FilterTransactions(txs []models.Transaction, statusFilter, textFilter string) []models.Transaction {
	statusActive := statusFilter != "" && !strings.EqualFold(statusFilter, AllStatuses)
	textActive := textFilter != ""
	needle := strings.ToLower(textFilter)

	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if statusActive && !strings.EqualFold(string(tx.Status), statusFilter) {
			continue
		}
		if textActive && !strings.Contains(strings.ToLower(tx.Description), needle) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
