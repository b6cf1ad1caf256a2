package models

// TransactionType is the closed set of ledger entry kinds.
// The four-way taxonomy is meaningful to downstream reporting even where the
// current sign behavior of some kinds coincides, so it must not be collapsed.
type TransactionType string

const (
	TransactionSale            TransactionType = "SALE"
	TransactionPurchase        TransactionType = "PURCHASE"
	TransactionExpense         TransactionType = "EXPENSE"
	TransactionPaymentReceived TransactionType = "PAYMENT_RECEIVED"
)

// Valid reports whether t is one of the enumerated transaction kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionExpense, TransactionPaymentReceived:
		return true
	}
	return false
}

// Transaction is a single monetary event in a customer's khata.
type Transaction struct {
	ID     int64           `json:"id,omitempty"` // Database primary key
	Type   TransactionType `json:"type"`
	Label  string          `json:"label"`
	Amount float64         `json:"amount"` // Always non-negative; sign comes from Type
	Date   string          `json:"date"`   // Display-formatted, e.g. "12 Oct"
}

// Customer owns one ledger: a running due amount plus the transaction log
// it is derived from. Transactions are ordered most-recent-first.
type Customer struct {
	ID           string        `json:"id"`
	BusinessName string        `json:"business_name"`
	OwnerName    string        `json:"owner_name"`
	Phone        string        `json:"phone"`
	DueAmount    float64       `json:"due_amount"` // Positive = customer owes the business
	Transactions []Transaction `json:"transactions"`
}
