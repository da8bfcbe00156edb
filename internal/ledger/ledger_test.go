package ledger

import (
	"math"
	"testing"

	"github.com/workhive/freelance-service/internal/models"
)

func tx(dir models.Direction, amount float64, status models.TransactionStatus, desc string) models.Transaction {
	return models.Transaction{Type: dir, Amount: amount, Status: status, Description: desc}
}

func TestComputeBalanceEmpty(t *testing.T) {
	b := ComputeBalance(nil)
	if b.Available != 0 || b.Pending != 0 || b.Total != 0 {
		t.Fatalf("empty ledger: got %+v, want all zero", b)
	}
}

func TestComputeBalance(t *testing.T) {
	txs := []models.Transaction{
		tx(models.DirectionCredit, 500, models.TxCompleted, "milestone payout"),
		tx(models.DirectionDebit, 120, models.TxCompleted, "withdrawal"),
		tx(models.DirectionCredit, 200, models.TxPending, "escrow release"),
		tx(models.DirectionDebit, 50, models.TxPending, "pending fee"),
	}
	b := ComputeBalance(txs)
	// available ignores status entirely: 500 - 120 + 200 - 50
	if b.Available != 530 {
		t.Errorf("available = %v, want 530", b.Available)
	}
	// pending sums amounts without regard to direction
	if b.Pending != 250 {
		t.Errorf("pending = %v, want 250", b.Pending)
	}
	if b.Total != 780 {
		t.Errorf("total = %v, want 780", b.Total)
	}
}

func TestComputeBalanceDirectionalPending(t *testing.T) {
	txs := []models.Transaction{
		tx(models.DirectionCredit, 200, models.TxPending, ""),
		tx(models.DirectionDebit, 50, models.TxPending, ""),
	}
	b := ComputeBalanceOpts(txs, Options{DirectionalPending: true})
	if b.Pending != 150 {
		t.Errorf("directional pending = %v, want 150", b.Pending)
	}
}

func TestComputeBalanceAdditivity(t *testing.T) {
	a := []models.Transaction{
		tx(models.DirectionCredit, 300, models.TxCompleted, ""),
		tx(models.DirectionDebit, 75, models.TxPending, ""),
	}
	b := []models.Transaction{
		tx(models.DirectionCredit, 40, models.TxPending, ""),
		tx(models.DirectionDebit, 10, models.TxFailed, ""),
	}
	combined := ComputeBalance(append(append([]models.Transaction{}, a...), b...))
	want := ComputeBalance(a).Available + ComputeBalance(b).Available
	if combined.Available != want {
		t.Errorf("available not additive: %v != %v", combined.Available, want)
	}
}

func TestComputeBalanceMalformedAmounts(t *testing.T) {
	txs := []models.Transaction{
		tx(models.DirectionCredit, 100, models.TxCompleted, ""),
		tx(models.DirectionCredit, -40, models.TxCompleted, ""),
		tx(models.DirectionDebit, math.NaN(), models.TxPending, ""),
	}
	b := ComputeBalance(txs)
	if b.Available != 100 {
		t.Errorf("available = %v, want 100 (malformed amounts coerced to 0)", b.Available)
	}
	if b.Pending != 0 {
		t.Errorf("pending = %v, want 0", b.Pending)
	}
}

func TestSummarize(t *testing.T) {
	txs := []models.Transaction{
		tx(models.DirectionCredit, 500, models.TxCompleted, ""),
		tx(models.DirectionDebit, 120, models.TxPending, ""),
		tx(models.DirectionCredit, 80, models.TxFailed, ""),
	}
	s := Summarize(txs)
	if s.PendingTotal != 120 || s.CompletedTotal != 500 {
		t.Errorf("status buckets: %+v", s)
	}
	if s.CreditTotal != 580 || s.DebitTotal != 120 {
		t.Errorf("direction buckets: %+v", s)
	}
	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
}

func TestFilterTransactions(t *testing.T) {
	txs := []models.Transaction{
		tx(models.DirectionCredit, 1, models.TxCompleted, "Milestone payout"),
		tx(models.DirectionDebit, 2, models.TxPending, "Withdrawal to bank"),
		tx(models.DirectionCredit, 3, models.TxPending, "Escrow milestone hold"),
	}

	got := FilterTransactions(txs, "Pending", "milestone")
	if len(got) != 1 || got[0].Amount != 3 {
		t.Fatalf("combined filter: got %v", got)
	}

	// "All" and empty string are sentinels that disable a filter
	if got := FilterTransactions(txs, "All", ""); len(got) != 3 {
		t.Errorf("sentinel filters: got %d rows, want 3", len(got))
	}
	if got := FilterTransactions(txs, "", "milestone"); len(got) != 2 {
		t.Errorf("text-only filter: got %d rows, want 2", len(got))
	}

	// order preserved
	got = FilterTransactions(txs, "pending", "")
	if len(got) != 2 || got[0].Amount != 2 || got[1].Amount != 3 {
		t.Errorf("filter must be stable: got %v", got)
	}
}
