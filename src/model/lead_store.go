package model

import (
	"database/sql"
	"time"

	"github.com/username/sudarshan/backend/src/models"
)

// InsertLead persists a freshly created lead.
func InsertLead(db *sql.DB, l *models.Lead) error {
	query := `
	INSERT INTO leads (id, name, detail, amount, status, assigned_to, reminder_date, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(l.ID, l.Name, l.Detail, l.Amount, l.Status, l.AssignedTo, l.ReminderDate, time.Now())
	return err
}

// GetLeadByID loads one lead. A miss returns sql.ErrNoRows.
func GetLeadByID(db *sql.DB, id string) (*models.Lead, error) {
	var l models.Lead
	err := db.QueryRow(`
		SELECT id, name, detail, amount, status, assigned_to, reminder_date
		FROM leads WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.Detail, &l.Amount, &l.Status, &l.AssignedTo, &l.ReminderDate)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLeads returns all leads in creation order, so the board renders stably
// across refreshes.
func ListLeads(db *sql.DB) ([]models.Lead, error) {
	rows, err := db.Query(`
		SELECT id, name, detail, amount, status, assigned_to, reminder_date
		FROM leads
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Detail, &l.Amount, &l.Status, &l.AssignedTo, &l.ReminderDate); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UpdateLeadStatus persists a stage change. A miss returns sql.ErrNoRows.
func UpdateLeadStatus(db *sql.DB, id string, status models.LeadStatus) error {
	result, err := db.Exec(`UPDATE leads SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
