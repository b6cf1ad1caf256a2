// backend/src/handlers/customer_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/processors"
	"github.com/username/sudarshan/backend/src/security/validation"
	"github.com/username/sudarshan/backend/src/services"
	"github.com/username/sudarshan/backend/src/utils"
)

type CustomerHandler struct {
	khataService services.KhataService
}

func NewCustomerHandler(khataService services.KhataService) *CustomerHandler {
	return &CustomerHandler{
		khataService: khataService,
	}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Everything in the taxonomy is recoverable; anything unknown is a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, processors.ErrInvalidAmount),
		errors.Is(err, processors.ErrInvalidTransactionType),
		errors.Is(err, services.ErrMissingBusinessName),
		errors.Is(err, validation.ErrValidationFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrLeadNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrGatewayUnavailable):
		utils.SendJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		logger.L.Error("Unexpected service error", "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

type addCustomerRequest struct {
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
	Phone        string `json:"phone"`
}

func (h *CustomerHandler) HandleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var req addCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.khataService.AddCustomer(r.Context(), req.BusinessName, req.OwnerName, req.Phone)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, customer, http.StatusCreated)
}

func (h *CustomerHandler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.khataService.ListCustomers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, customers, http.StatusOK)
}

func (h *CustomerHandler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	customer, err := h.khataService.GetCustomer(r.Context(), customerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, customer, http.StatusOK)
}

func (h *CustomerHandler) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	var input services.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.khataService.RecordTransaction(r.Context(), customerID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, customer, http.StatusOK)
}

func (h *CustomerHandler) HandleGetReminder(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	payload, err := h.khataService.ReminderMessage(r.Context(), customerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, payload, http.StatusOK)
}
