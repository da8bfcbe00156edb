package models

// Direction is the accounting side of a ledger transaction.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// TransactionStatus is the lifecycle state of a ledger transaction.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxCancelled TransactionStatus = "cancelled"
	TxFailed    TransactionStatus = "failed"
	TxWithdrawn TransactionStatus = "withdrawn"
)

// Transaction is a single row in the append-only wallet ledger.
// Rows are read-only once written; balance views are derived, never stored.
type Transaction struct {
	ID          string            `json:"id"`
	WalletID    int64             `json:"wallet_id"`
	Type        Direction         `json:"type"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	Status      TransactionStatus `json:"status"`
}
