// backend/src/services/lead_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/model"
	"github.com/username/sudarshan/backend/src/models"
	"github.com/username/sudarshan/backend/src/processors"
	"github.com/username/sudarshan/backend/src/security/validation"
)

type leadServiceImpl struct {
	db          *sql.DB
	pipeline    *processors.LeadProcessor
	reportCache *cache.Cache
}

func NewLeadService(db *sql.DB, pipeline *processors.LeadProcessor, reportCache *cache.Cache) LeadService {
	return &leadServiceImpl{
		db:          db,
		pipeline:    pipeline,
		reportCache: reportCache,
	}
}

func (s *leadServiceImpl) AddLead(ctx context.Context, input LeadInput) (*models.Lead, error) {
	name := validation.CleanField(input.Name)
	if err := validation.ValidateStringNotEmpty(name, "name"); err != nil {
		return nil, err
	}
	detail := validation.CleanField(input.Detail)
	if err := validation.ValidateStringMaxLength(detail, validation.MaxDetailLength, "detail"); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		ID:           uuid.New().String(),
		Name:         name,
		Detail:       detail,
		Amount:       validation.CleanField(input.Amount),
		Status:       models.LeadNew,
		AssignedTo:   validation.CleanField(input.AssignedTo),
		ReminderDate: validation.CleanField(input.ReminderDate),
	}

	if err := model.InsertLead(s.db, lead); err != nil {
		logger.ErrorFromContext(ctx, "Failed to insert lead", "name", name, "error", err)
		return nil, fmt.Errorf("inserting lead: %w", err)
	}

	s.reportCache.Delete(ckDashboardSummary)
	logger.InfoFromContext(ctx, "Lead created", "leadID", lead.ID, "name", name)
	return lead, nil
}

// AdvanceLead moves a lead one step around the stage ring and persists the
// result. The only failure mode is the lead not existing.
func (s *leadServiceImpl) AdvanceLead(ctx context.Context, id string) (*models.Lead, error) {
	lead, err := model.GetLeadByID(s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("fetching lead %s: %w", id, err)
	}

	s.pipeline.Advance(lead)

	if err := model.UpdateLeadStatus(s.db, lead.ID, lead.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		logger.ErrorFromContext(ctx, "Failed to persist lead status", "leadID", lead.ID, "error", err)
		return nil, fmt.Errorf("updating lead status: %w", err)
	}

	s.reportCache.Delete(ckDashboardSummary)
	logger.InfoFromContext(ctx, "Lead advanced", "leadID", lead.ID, "status", lead.Status)
	return lead, nil
}

func (s *leadServiceImpl) ListLeads(ctx context.Context) ([]models.Lead, error) {
	leads, err := model.ListLeads(s.db)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return leads, nil
}
