package services

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/models"
	"github.com/username/sudarshan/backend/src/processors"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const testSchema = `
CREATE TABLE customers (
    id TEXT PRIMARY KEY,
    business_name TEXT NOT NULL,
    owner_name TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    due_amount REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id TEXT NOT NULL,
    type TEXT NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    amount REAL NOT NULL,
    date TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE
);
CREATE TABLE leads (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    amount TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'NAYA',
    assigned_to TEXT NOT NULL DEFAULT '',
    reminder_date TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newKhataService(t *testing.T) KhataService {
	t.Helper()
	return NewKhataService(newTestDB(t), processors.NewLedgerProcessor(), cache.New(time.Minute, time.Minute))
}

func TestAddCustomerStartsSettled(t *testing.T) {
	svc := newKhataService(t)
	ctx := context.Background()

	customer, err := svc.AddCustomer(ctx, "Gupta Store", "Rajesh Gupta", "9876543210")
	require.NoError(t, err)

	assert.NotEmpty(t, customer.ID)
	assert.Equal(t, 0.0, customer.DueAmount)
	assert.Empty(t, customer.Transactions)

	got, err := svc.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gupta Store", got.BusinessName)
	assert.Equal(t, 0.0, got.DueAmount)
}

func TestAddCustomerRequiresBusinessName(t *testing.T) {
	svc := newKhataService(t)

	for _, name := range []string{"", "   ", "<b></b>"} {
		_, err := svc.AddCustomer(context.Background(), name, "Someone", "123")
		require.ErrorIs(t, err, ErrMissingBusinessName, "name %q", name)
	}
}

func TestGetCustomerMissIsNotFound(t *testing.T) {
	svc := newKhataService(t)

	_, err := svc.GetCustomer(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestRecordTransactionScenario(t *testing.T) {
	svc := newKhataService(t)
	ctx := context.Background()

	customer, err := svc.AddCustomer(ctx, "Gupta Store", "Rajesh Gupta", "9876543210")
	require.NoError(t, err)

	// Seed the 4500 starting balance from the books.
	customer, err = svc.RecordTransaction(ctx, customer.ID, TransactionInput{
		Type: "SALE", Label: "Opening Balance", Amount: "4500", Date: "1 Oct",
	})
	require.NoError(t, err)
	require.Equal(t, 4500.0, customer.DueAmount)

	customer, err = svc.RecordTransaction(ctx, customer.ID, TransactionInput{
		Type: "SALE", Label: "Festival Order", Amount: "1500", Date: "20 Oct",
	})
	require.NoError(t, err)
	assert.Equal(t, 6000.0, customer.DueAmount)
	assert.Equal(t, "Festival Order", customer.Transactions[0].Label)

	customer, err = svc.RecordTransaction(ctx, customer.ID, TransactionInput{
		Type: "PAYMENT_RECEIVED", Amount: "2000", Date: "21 Oct",
	})
	require.NoError(t, err)
	assert.Equal(t, 4000.0, customer.DueAmount)
	assert.Equal(t, processors.DefaultManualLabel, customer.Transactions[0].Label)

	// The persisted view matches the returned one.
	got, err := svc.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, got.DueAmount)
	require.Len(t, got.Transactions, 3)
	assert.Equal(t, models.TransactionPaymentReceived, got.Transactions[0].Type)
}

func TestRecordTransactionRejectsBadInput(t *testing.T) {
	svc := newKhataService(t)
	ctx := context.Background()

	customer, err := svc.AddCustomer(ctx, "Gupta Store", "Rajesh Gupta", "9876543210")
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, customer.ID, TransactionInput{Type: "SALE", Amount: "abc"})
	require.ErrorIs(t, err, processors.ErrInvalidAmount)

	_, err = svc.RecordTransaction(ctx, customer.ID, TransactionInput{Type: "SALE", Amount: "-5"})
	require.ErrorIs(t, err, processors.ErrInvalidAmount)

	_, err = svc.RecordTransaction(ctx, customer.ID, TransactionInput{Type: "REFUND", Amount: "100"})
	require.ErrorIs(t, err, processors.ErrInvalidTransactionType)

	// Nothing was applied.
	got, err := svc.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.DueAmount)
	assert.Empty(t, got.Transactions)
}

func TestRecordTransactionUnknownCustomer(t *testing.T) {
	svc := newKhataService(t)

	_, err := svc.RecordTransaction(context.Background(), "ghost", TransactionInput{Type: "SALE", Amount: "10"})
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestReminderMessage(t *testing.T) {
	svc := newKhataService(t)
	ctx := context.Background()

	customer, err := svc.AddCustomer(ctx, "Gupta Store", "Rajesh Gupta", "9876543210")
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, customer.ID, TransactionInput{Type: "SALE", Amount: "4500"})
	require.NoError(t, err)

	payload, err := svc.ReminderMessage(ctx, customer.ID)
	require.NoError(t, err)
	assert.Contains(t, payload.Message, "Rajesh Gupta")
	assert.Contains(t, payload.Message, "₹4500")
	assert.Contains(t, payload.WhatsAppURL, "https://wa.me/9876543210?text=")
}

func TestDashboardSummaryAggregatesAndCaches(t *testing.T) {
	db := newTestDB(t)
	reportCache := cache.New(time.Minute, time.Minute)
	khata := NewKhataService(db, processors.NewLedgerProcessor(), reportCache)
	leadSvc := NewLeadService(db, processors.NewLeadProcessor(), reportCache)
	ctx := context.Background()

	c1, err := khata.AddCustomer(ctx, "Gupta Store", "Rajesh", "1")
	require.NoError(t, err)
	_, err = khata.RecordTransaction(ctx, c1.ID, TransactionInput{Type: "SALE", Amount: "4500"})
	require.NoError(t, err)
	_, err = khata.AddCustomer(ctx, "Prakash Kirana", "Om Prakash", "2")
	require.NoError(t, err)

	won, err := leadSvc.AddLead(ctx, LeadInput{Name: "Anita Boutique", Amount: "₹55,000"})
	require.NoError(t, err)
	_, err = leadSvc.AdvanceLead(ctx, won.ID)
	require.NoError(t, err)
	_, err = leadSvc.AdvanceLead(ctx, won.ID)
	require.NoError(t, err)

	summary, err := khata.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CustomerCount)
	assert.Equal(t, 4500.0, summary.TotalOutstanding)
	assert.Equal(t, 1, summary.SettledCustomers)
	assert.Equal(t, 1, summary.LeadCounts[models.LeadWon])
	assert.Equal(t, 55000.0, summary.WonPipelineValue)

	// A mutation invalidates the cached report.
	_, err = khata.RecordTransaction(ctx, c1.ID, TransactionInput{Type: "PAYMENT_RECEIVED", Amount: "500"})
	require.NoError(t, err)
	summary, err = khata.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, summary.TotalOutstanding)
}
