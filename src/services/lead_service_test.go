package services

import (
	"context"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/sudarshan/backend/src/models"
	"github.com/username/sudarshan/backend/src/processors"
	"github.com/username/sudarshan/backend/src/security/validation"
)

func newLeadService(t *testing.T) LeadService {
	t.Helper()
	return NewLeadService(newTestDB(t), processors.NewLeadProcessor(), cache.New(time.Minute, time.Minute))
}

func TestAddLeadStartsNew(t *testing.T) {
	svc := newLeadService(t)

	lead, err := svc.AddLead(context.Background(), LeadInput{
		Name:       "Ramesh Halwai",
		Detail:     "Party order for Sunday sweets",
		Amount:     "₹15,000",
		AssignedTo: "Self",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, models.LeadNew, lead.Status)
}

func TestAddLeadRequiresName(t *testing.T) {
	svc := newLeadService(t)

	_, err := svc.AddLead(context.Background(), LeadInput{Detail: "No one to call"})
	require.ErrorIs(t, err, validation.ErrValidationFailed)
}

func TestAdvanceLeadLifecycle(t *testing.T) {
	svc := newLeadService(t)
	ctx := context.Background()

	lead, err := svc.AddLead(ctx, LeadInput{Name: "Suresh Tailor", Detail: "Bulk thread stock order"})
	require.NoError(t, err)
	require.Equal(t, models.LeadNew, lead.Status)

	lead, err = svc.AdvanceLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadInProgress, lead.Status)

	lead, err = svc.AdvanceLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadWon, lead.Status)

	lead, err = svc.AdvanceLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, lead.Status)

	// The persisted status matches the returned one.
	leads, err := svc.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, models.LeadNew, leads[0].Status)
}

func TestAdvanceLeadMiss(t *testing.T) {
	svc := newLeadService(t)

	_, err := svc.AdvanceLead(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrLeadNotFound)
}
