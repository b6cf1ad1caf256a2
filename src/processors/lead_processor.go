// backend/src/processors/lead_processor.go
package processors

import (
	"github.com/username/sudarshan/backend/src/models"
)

// nextStage encodes the pipeline ring as an explicit transition table:
// NAYA -> BAAT_CHAL_RAHI -> PAKKA -> NAYA. A won deal's slot cycles back to
// NAYA so it can be reused for a fresh lead, so there is no terminal stage.
var nextStage = map[models.LeadStatus]models.LeadStatus{
	models.LeadNew:        models.LeadInProgress,
	models.LeadInProgress: models.LeadWon,
	models.LeadWon:        models.LeadNew,
}

// LeadProcessor advances leads around the fixed stage ring.
type LeadProcessor struct{}

func NewLeadProcessor() *LeadProcessor { return &LeadProcessor{} }

// Next returns the stage following s on the ring. Unrecognized input falls
// back to NAYA, matching the state a lead is created in.
func (p *LeadProcessor) Next(s models.LeadStatus) models.LeadStatus {
	if next, ok := nextStage[s]; ok {
		return next
	}
	return models.LeadNew
}

// Advance moves the lead to its next stage. It always succeeds: the ring is
// total and there is nothing to validate beyond the lead existing, which is
// the caller's lookup concern.
func (p *LeadProcessor) Advance(lead *models.Lead) {
	lead.Status = p.Next(lead.Status)
}
