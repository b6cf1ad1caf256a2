// backend/src/handlers/lead_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/sudarshan/backend/src/services"
	"github.com/username/sudarshan/backend/src/utils"
)

type LeadHandler struct {
	leadService services.LeadService
}

func NewLeadHandler(leadService services.LeadService) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
	}
}

func (h *LeadHandler) HandleAddLead(w http.ResponseWriter, r *http.Request) {
	var input services.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lead, err := h.leadService.AddLead(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, lead, http.StatusCreated)
}

func (h *LeadHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leadService.ListLeads(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, leads, http.StatusOK)
}

func (h *LeadHandler) HandleAdvanceLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")
	lead, err := h.leadService.AdvanceLead(r.Context(), leadID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, lead, http.StatusOK)
}
