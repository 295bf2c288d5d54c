package models

import (
	"errors"
	"time"

	"github.com/barber-crm/AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID          int64          `json:"id"`
	CustomerID  int64          `json:"customerId"`
	ScheduledAt time.Time      `json:"scheduledAt"`
	Status      string         `json:"status"`
	Notes       *string        `json:"notes,omitempty"`
	Items       []ItemResponse `json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemResponse одна позиция записи
type ItemResponse struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointmentId"`
	ServiceID     int64     `json:"serviceId"`
	StaffID       *int64    `json:"staffId,omitempty"`
	ScheduledTime time.Time `json:"scheduledTime"`

	// Снимок данных услуги на момент бронирования
	ServiceName     string `json:"serviceName"`
	PriceCents      int64  `json:"priceCents"`
	DurationMinutes int    `json:"durationMinutes"`

	Status string `json:"status"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// AppointmentPageResponse страница записей с данными пагинации
type AppointmentPageResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Page         uint64                `json:"page"`
	PageSize     uint64                `json:"pageSize"`
	Total        int64                 `json:"total"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		ScheduledAt: a.ScheduledAt,
		Status:      string(a.Status),
		Notes:       a.Notes,
		Items:       make([]ItemResponse, len(a.Items)),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	for i, item := range a.Items {
		resp.Items[i] = FromDomainItem(&item)
	}

	return resp
}

// FromDomainItem конвертирует позицию записи в DTO
func FromDomainItem(item *domain.AppointmentItem) ItemResponse {
	return ItemResponse{
		ID:              item.ID,
		AppointmentID:   item.AppointmentID,
		ServiceID:       item.ServiceID,
		StaffID:         item.StaffID,
		ScheduledTime:   item.ScheduledTime,
		ServiceName:     item.ServiceName,
		PriceCents:      item.PriceCents,
		DurationMinutes: item.DurationMinutes,
		Status:          string(item.Status),
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appts)),
	}

	for _, appt := range appts {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	for _, valid := range domain.ValidAppointmentStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
