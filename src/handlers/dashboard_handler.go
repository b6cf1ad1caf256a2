// backend/src/handlers/dashboard_handler.go
package handlers

import (
	"net/http"

	"github.com/username/sudarshan/backend/src/services"
	"github.com/username/sudarshan/backend/src/utils"
)

type DashboardHandler struct {
	khataService services.KhataService
}

func NewDashboardHandler(khataService services.KhataService) *DashboardHandler {
	return &DashboardHandler{
		khataService: khataService,
	}
}

func (h *DashboardHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.khataService.DashboardSummary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, summary, http.StatusOK)
}
