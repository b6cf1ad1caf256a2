// backend/src/services/khata_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/model"
	"github.com/username/sudarshan/backend/src/models"
	"github.com/username/sudarshan/backend/src/processors"
	"github.com/username/sudarshan/backend/src/security/validation"
)

type khataServiceImpl struct {
	db          *sql.DB
	ledger      *processors.LedgerProcessor
	reportCache *cache.Cache
}

func NewKhataService(db *sql.DB, ledger *processors.LedgerProcessor, reportCache *cache.Cache) KhataService {
	return &khataServiceImpl{
		db:          db,
		ledger:      ledger,
		reportCache: reportCache,
	}
}

func (s *khataServiceImpl) AddCustomer(ctx context.Context, businessName, ownerName, phone string) (*models.Customer, error) {
	businessName = validation.CleanField(businessName)
	ownerName = validation.CleanField(ownerName)
	phone = validation.CleanField(phone)

	if businessName == "" {
		return nil, ErrMissingBusinessName
	}
	if err := validation.ValidateStringMaxLength(businessName, validation.DefaultMaxStringLength, "business_name"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingBusinessName, err)
	}
	if err := validation.ValidateStringMaxLength(phone, validation.MaxPhoneLength, "phone"); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:           uuid.New().String(),
		BusinessName: businessName,
		OwnerName:    ownerName,
		Phone:        phone,
		DueAmount:    0,
		Transactions: []models.Transaction{},
	}

	if err := model.InsertCustomer(s.db, customer); err != nil {
		logger.ErrorFromContext(ctx, "Failed to insert customer", "businessName", businessName, "error", err)
		return nil, fmt.Errorf("inserting customer: %w", err)
	}

	s.reportCache.Delete(ckDashboardSummary)
	logger.InfoFromContext(ctx, "Customer created", "customerID", customer.ID, "businessName", businessName)
	return customer, nil
}

func (s *khataServiceImpl) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := model.GetCustomerByID(s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("fetching customer %s: %w", id, err)
	}
	return customer, nil
}

func (s *khataServiceImpl) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := model.ListCustomers(s.db)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return customers, nil
}

// RecordTransaction validates and applies a new ledger entry. The processor
// mutates an in-memory copy first; only a fully valid entry reaches the
// store, so a rejection leaves both memory and disk untouched.
func (s *khataServiceImpl) RecordTransaction(ctx context.Context, customerID string, input TransactionInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	amount, err := processors.ParseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	entry := models.Transaction{
		Type:   models.TransactionType(input.Type),
		Label:  validation.CleanField(input.Label),
		Amount: amount,
		Date:   validation.CleanField(input.Date),
	}
	if err := validation.ValidateStringMaxLength(entry.Label, validation.MaxLabelLength, "label"); err != nil {
		return nil, err
	}

	if err := s.ledger.Apply(customer, entry); err != nil {
		return nil, err
	}

	// Apply prepends, so the head of the log is the entry we just built,
	// with its defaults filled in.
	applied := customer.Transactions[0]
	entryID, err := model.SaveLedgerEntry(s.db, customer.ID, applied, customer.DueAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		logger.ErrorFromContext(ctx, "Failed to persist ledger entry", "customerID", customer.ID, "error", err)
		return nil, fmt.Errorf("saving ledger entry: %w", err)
	}
	customer.Transactions[0].ID = entryID

	s.reportCache.Delete(ckDashboardSummary)
	logger.InfoFromContext(ctx, "Ledger entry recorded",
		"customerID", customer.ID, "type", applied.Type, "amount", applied.Amount, "newDue", customer.DueAmount)
	return customer, nil
}

// ReminderMessage builds the canned WhatsApp dues reminder for a customer.
// Read-only: sending it is the app's concern.
func (s *khataServiceImpl) ReminderMessage(ctx context.Context, customerID string) (*ReminderPayload, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Namaste %s ji, aapka total baki amount ₹%.0f hai. Kripya jald hi clear karein. - Sudarshan CRM",
		customer.OwnerName, customer.DueAmount)
	return &ReminderPayload{
		Message:     msg,
		WhatsAppURL: fmt.Sprintf("https://wa.me/%s?text=%s", customer.Phone, url.QueryEscape(msg)),
	}, nil
}

func (s *khataServiceImpl) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	if cached, found := s.reportCache.Get(ckDashboardSummary); found {
		return cached.(*DashboardSummary), nil
	}

	customers, err := model.ListCustomers(s.db)
	if err != nil {
		return nil, fmt.Errorf("listing customers for summary: %w", err)
	}
	leads, err := model.ListLeads(s.db)
	if err != nil {
		return nil, fmt.Errorf("listing leads for summary: %w", err)
	}

	summary := &DashboardSummary{
		CustomerCount: len(customers),
		LeadCounts: map[models.LeadStatus]int{
			models.LeadNew:        0,
			models.LeadInProgress: 0,
			models.LeadWon:        0,
		},
	}
	for _, c := range customers {
		if c.DueAmount > 0 {
			summary.TotalOutstanding += c.DueAmount
		} else {
			summary.SettledCustomers++
		}
	}
	for _, l := range leads {
		summary.LeadCounts[l.Status]++
		if l.Status == models.LeadWon {
			if v, err := processors.ParseAmount(l.Amount); err == nil {
				summary.WonPipelineValue += v
			}
		}
	}

	s.reportCache.Set(ckDashboardSummary, summary, DefaultCacheExpiration)
	return summary, nil
}
