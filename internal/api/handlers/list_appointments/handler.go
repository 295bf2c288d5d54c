package list_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/barber-crm/AppointmentService/internal/api/handlers"
	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/service/appointments/models"
	"github.com/barber-crm/AppointmentService/internal/service/schedule"
)

const (
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPeriod = "некорректный период, ожидаются параметры from и to в формате YYYY-MM-DD"
)

type Handler struct {
	apptService     AppointmentService
	scheduleService ScheduleService
	logger          Logger
}

func NewHandler(apptService AppointmentService, scheduleService ScheduleService, logger Logger) *Handler {
	return &Handler{
		apptService:     apptService,
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// Handle GET /api/v1/appointments
//
// Поддерживаемые фильтры:
//   - ?date=YYYY-MM-DD - записи на дату
//   - ?from=YYYY-MM-DD&to=YYYY-MM-DD - записи за период
//   - ?page=1&pageSize=20 - все записи постранично (по умолчанию)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Фильтр по конкретной дате
	if dateStr := query.Get("date"); dateStr != "" {
		h.handleByDate(w, r, dateStr)
		return
	}

	// Фильтр по периоду
	if query.Get("from") != "" || query.Get("to") != "" {
		h.handleByPeriod(w, r, query.Get("from"), query.Get("to"))
		return
	}

	// Без фильтров - постраничный список всех записей
	h.handlePaged(w, r)
}

func (h *Handler) handleByDate(w http.ResponseWriter, r *http.Request, dateStr string) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	appts, err := h.scheduleService.AppointmentsOnDate(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /appointments - Failed to get appointments by date=%s: %v", dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Retrieved %d appointments for date=%s", len(appts), dateStr)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointmentList(appts))
}

func (h *Handler) handleByPeriod(w http.ResponseWriter, r *http.Request, fromStr, toStr string) {
	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid period start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid period end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	// Период включает обе границы, конец периода - конец суток
	to = to.Add(24*time.Hour - time.Second)

	appts, err := h.scheduleService.AppointmentsBetween(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("GET /appointments - Invalid period: from=%s, to=%s", fromStr, toStr)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		h.logger.Error("GET /appointments - Failed to get appointments for period %s..%s: %v", fromStr, toStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Retrieved %d appointments for period %s..%s", len(appts), fromStr, toStr)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointmentList(appts))
}

func (h *Handler) handlePaged(w http.ResponseWriter, r *http.Request) {
	page := parseUintQuery(r, "page")
	pageSize := parseUintQuery(r, "pageSize")

	result, err := h.apptService.GetAllAppointments(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("GET /appointments - Failed to get appointments: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Retrieved %d appointments, page=%d", len(result.Appointments), result.Page)
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
