package get_customer_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barber-crm/AppointmentService/internal/api/handlers"
	"github.com/barber-crm/AppointmentService/internal/service/appointments"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgInvalidInput      = "некорректные параметры запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/appointments?page=1&pageSize=20
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerIDStr := vars["customerId"]

	customerID, err := strconv.ParseInt(customerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/appointments - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	// Параметры пагинации опциональны, сервис подставит значения по умолчанию
	page := parseUintQuery(r, "page")
	pageSize := parseUintQuery(r, "pageSize")

	result, err := h.service.GetCustomerAppointments(r.Context(), customerID, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /customers/{id}/appointments - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /customers/{id}/appointments - Failed to get appointments: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{id}/appointments - Retrieved %d appointments: customer_id=%d",
		len(result.Appointments), customerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseUintQuery парсит числовой query-параметр, 0 при отсутствии или ошибке
func parseUintQuery(r *http.Request, name string) uint64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
