// backend/src/processors/ledger_processor.go
package processors

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/username/sudarshan/backend/src/models"
)

var (
	// ErrInvalidAmount rejects amounts that are missing, non-numeric,
	// NaN/Inf or negative.
	ErrInvalidAmount = errors.New("invalid transaction amount")
	// ErrInvalidTransactionType rejects kinds outside the closed enumeration.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// Default labels applied when the caller gives none.
const (
	DefaultSaleLabel   = "General Sale"
	DefaultManualLabel = "Manual Entry"
)

// LedgerProcessor applies transactions to a customer's khata and keeps the
// running due amount consistent with the transaction log. It is the single
// authoritative state transition for balances: nothing else in the codebase
// writes Customer.DueAmount.
type LedgerProcessor struct{}

func NewLedgerProcessor() *LedgerProcessor { return &LedgerProcessor{} }

// signedDelta returns the contribution of tx to the due amount. A sale
// increases what the customer owes; a payment received, a purchase made by
// the business from the customer, and an expense credited to the customer all
// reduce it. The switch stays four-way on purpose: the kinds carry meaning
// beyond the sign they currently share.
func signedDelta(tx models.Transaction) (float64, error) {
	switch tx.Type {
	case models.TransactionSale:
		return tx.Amount, nil
	case models.TransactionPaymentReceived:
		return -tx.Amount, nil
	case models.TransactionPurchase:
		return -tx.Amount, nil
	case models.TransactionExpense:
		return -tx.Amount, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTransactionType, tx.Type)
	}
}

// Apply validates tx, fills its label and date defaults, prepends it to the
// customer's transaction log and moves the due amount by the signed delta.
// On any validation failure the customer is left untouched.
func (p *LedgerProcessor) Apply(customer *models.Customer, tx models.Transaction) error {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) || tx.Amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, tx.Amount)
	}

	delta, err := signedDelta(tx)
	if err != nil {
		return err
	}

	if tx.Label == "" {
		if tx.Type == models.TransactionSale {
			tx.Label = DefaultSaleLabel
		} else {
			tx.Label = DefaultManualLabel
		}
	}
	if tx.Date == "" {
		tx.Date = FormatEntryDate(time.Now())
	}

	// Most-recent-first ordering is part of the ledger contract, not just a
	// presentation choice. Consumers iterating Transactions see newest first.
	customer.Transactions = append([]models.Transaction{tx}, customer.Transactions...)
	customer.DueAmount += delta
	return nil
}

// ParseAmount converts a user-supplied amount string into a value Apply will
// accept. Thousands separators and a leading rupee sign are tolerated since
// amounts often arrive copied from the UI.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, val)
	}
	return val, nil
}

// FormatEntryDate renders a time the way khata entries display it ("2 Jan").
func FormatEntryDate(t time.Time) string {
	return t.Format("2 Jan")
}
