package create_appointment

import (
	"errors"
	"net/http"

	"github.com/barber-crm/AppointmentService/internal/api/handlers"
	"github.com/barber-crm/AppointmentService/internal/api/middleware"
	createAppointment "github.com/barber-crm/AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgCustomerNotFound    = "клиент не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgStaffNotFound       = "мастер не найден"
	msgServiceInactive     = "услуга недоступна для записи"
	msgStaffInactive       = "мастер недоступен для записи"
	msgSchedulingConflict  = "мастер занят в выбранное время"
	msgOutsideWorkingHours = "время вне рабочих часов мастера"
	msgAppointmentInPast   = "время записи должно быть в будущем"
	msgInvalidInput        = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем customerID из контекста (через middleware Auth)
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createAppointment.ErrSchedulingConflict):
			h.logger.Warn("POST /appointments - Scheduling conflict: customer_id=%d", customerID)
			handlers.RespondError(w, http.StatusConflict, msgSchedulingConflict)

		case errors.Is(err, createAppointment.ErrCustomerNotFound):
			h.logger.Warn("POST /appointments - Customer not found: customer_id=%d", customerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: customer_id=%d", customerID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: customer_id=%d", customerID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /appointments - Service inactive: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrStaffInactive):
			h.logger.Warn("POST /appointments - Staff inactive: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgStaffInactive)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /appointments - Outside working hours: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createAppointment.ErrAppointmentInPast):
			h.logger.Warn("POST /appointments - Appointment in past: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgAppointmentInPast)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, customer_id=%d, items=%d",
		result.ID, customerID, len(result.Items))
	handlers.RespondJSON(w, http.StatusCreated, response)
}
