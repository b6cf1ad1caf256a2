package model

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/username/sudarshan/backend/src/models"
)

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

func TestCustomerRoundTrip(t *testing.T) {
	db := newTestDB(t)

	c := &models.Customer{
		ID:           "c1",
		BusinessName: "Gupta Store",
		OwnerName:    "Rajesh Gupta",
		Phone:        "9876543210",
	}
	require.NoError(t, InsertCustomer(db, c))

	got, err := GetCustomerByID(db, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Gupta Store", got.BusinessName)
	assert.Equal(t, 0.0, got.DueAmount)
	assert.Empty(t, got.Transactions)
}

func TestGetCustomerByIDMiss(t *testing.T) {
	db := newTestDB(t)

	_, err := GetCustomerByID(db, "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveLedgerEntryOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, InsertCustomer(db, &models.Customer{ID: "c1", BusinessName: "Sharma Sweets"}))

	first := models.Transaction{Type: models.TransactionSale, Label: "Diwali Box Order", Amount: 2000, Date: "10 Oct"}
	second := models.Transaction{Type: models.TransactionPaymentReceived, Label: "Cash Payment", Amount: 800, Date: "11 Oct"}

	_, err := SaveLedgerEntry(db, "c1", first, 2000)
	require.NoError(t, err)
	_, err = SaveLedgerEntry(db, "c1", second, 1200)
	require.NoError(t, err)

	got, err := GetCustomerByID(db, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, got.DueAmount)
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "Cash Payment", got.Transactions[0].Label)
	assert.Equal(t, "Diwali Box Order", got.Transactions[1].Label)
}

func TestSaveLedgerEntryUnknownCustomer(t *testing.T) {
	db := newTestDB(t)

	_, err := SaveLedgerEntry(db, "nope", models.Transaction{Type: models.TransactionSale, Amount: 10}, 10)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLeadRoundTripAndStatusUpdate(t *testing.T) {
	db := newTestDB(t)

	l := &models.Lead{ID: "l1", Name: "Anita Boutique", Detail: "Wedding Season Sarees Bulk", Amount: "₹55,000", Status: models.LeadNew}
	require.NoError(t, InsertLead(db, l))

	got, err := GetLeadByID(db, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, got.Status)

	require.NoError(t, UpdateLeadStatus(db, "l1", models.LeadInProgress))
	got, err = GetLeadByID(db, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.LeadInProgress, got.Status)

	require.ErrorIs(t, UpdateLeadStatus(db, "ghost", models.LeadWon), sql.ErrNoRows)
}

func TestListLeadsStableOrder(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, InsertLead(db, &models.Lead{ID: "l1", Name: "Ramesh Halwai", Status: models.LeadNew}))
	require.NoError(t, InsertLead(db, &models.Lead{ID: "l2", Name: "Suresh Tailor", Status: models.LeadInProgress}))

	leads, err := ListLeads(db)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "l1", leads[0].ID)
	assert.Equal(t, "l2", leads[1].ID)
}
