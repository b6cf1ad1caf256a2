package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/sudarshan/backend/src/models"
)

// InsertCustomer persists a freshly created customer.
func InsertCustomer(db *sql.DB, c *models.Customer) error {
	query := `
	INSERT INTO customers (id, business_name, owner_name, phone, due_amount, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(c.ID, c.BusinessName, c.OwnerName, c.Phone, c.DueAmount, time.Now())
	return err
}

// GetCustomerByID loads a customer and its transaction log. The log comes
// back most-recent-first: rows are inserted in ledger order, so descending
// insertion id is newest first. A miss returns sql.ErrNoRows.
func GetCustomerByID(db *sql.DB, id string) (*models.Customer, error) {
	var c models.Customer
	err := db.QueryRow(`
		SELECT id, business_name, owner_name, phone, due_amount
		FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.BusinessName, &c.OwnerName, &c.Phone, &c.DueAmount)
	if err != nil {
		return nil, err
	}

	txs, err := loadTransactions(db, c.ID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions for customer %s: %w", c.ID, err)
	}
	c.Transactions = txs
	return &c, nil
}

// ListCustomers returns all customers, newest first, each with its full
// transaction log.
func ListCustomers(db *sql.DB) ([]models.Customer, error) {
	rows, err := db.Query(`
		SELECT id, business_name, owner_name, phone, due_amount
		FROM customers
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.BusinessName, &c.OwnerName, &c.Phone, &c.DueAmount); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range customers {
		txs, err := loadTransactions(db, customers[i].ID)
		if err != nil {
			return nil, fmt.Errorf("loading transactions for customer %s: %w", customers[i].ID, err)
		}
		customers[i].Transactions = txs
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

func loadTransactions(db *sql.DB, customerID string) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT id, type, label, amount, date
		FROM transactions
		WHERE customer_id = ?
		ORDER BY id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.Label, &tx.Amount, &tx.Date); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// SaveLedgerEntry writes a new transaction row and the recomputed due amount
// in one database transaction, so no committed state ever shows a balance
// that disagrees with its log.
func SaveLedgerEntry(db *sql.DB, customerID string, tx models.Transaction, newDue float64) (int64, error) {
	dbTx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer dbTx.Rollback()

	res, err := dbTx.Exec(`
		INSERT INTO transactions (customer_id, type, label, amount, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		customerID, tx.Type, tx.Label, tx.Amount, tx.Date, time.Now())
	if err != nil {
		return 0, err
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	result, err := dbTx.Exec(`UPDATE customers SET due_amount = ? WHERE id = ?`, newDue, customerID)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, sql.ErrNoRows
	}

	return entryID, dbTx.Commit()
}
