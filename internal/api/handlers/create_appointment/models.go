package create_appointment

import (
	"time"

	createAppointment "github.com/barber-crm/AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ScheduledAt string        `json:"scheduledAt"` // RFC3339, "2026-03-15T14:00:00Z"
	Notes       *string       `json:"notes,omitempty"`
	Items       []ItemRequest `json:"items"`
}

// ItemRequest одна позиция в HTTP запросе
type ItemRequest struct {
	ServiceID     int64  `json:"serviceId"`
	StaffID       *int64 `json:"staffId,omitempty"`
	ScheduledTime string `json:"scheduledTime"` // RFC3339
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64          `json:"id"`
	CustomerID  int64          `json:"customerId"`
	ScheduledAt string         `json:"scheduledAt"`
	Status      string         `json:"status"`
	Notes       *string        `json:"notes,omitempty"`
	Items       []ItemResponse `json:"items"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

// ItemResponse одна созданная позиция в HTTP ответе
type ItemResponse struct {
	ID              int64  `json:"id"`
	AppointmentID   int64  `json:"appointmentId"`
	ServiceID       int64  `json:"serviceId"`
	StaffID         *int64 `json:"staffId,omitempty"`
	ScheduledTime   string `json:"scheduledTime"`
	ServiceName     string `json:"serviceName"`
	PriceCents      int64  `json:"priceCents"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*createAppointment.Request, error) {
	// Парсим номинальное время записи
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	items := make([]createAppointment.ItemRequest, len(r.Items))
	for i, item := range r.Items {
		scheduledTime, err := time.Parse(time.RFC3339, item.ScheduledTime)
		if err != nil {
			return nil, err
		}
		items[i] = createAppointment.ItemRequest{
			ServiceID:     item.ServiceID,
			StaffID:       item.StaffID,
			ScheduledTime: scheduledTime,
		}
	}

	return &createAppointment.Request{
		CustomerID:  customerID,
		ScheduledAt: scheduledAt,
		Notes:       r.Notes,
		Items:       items,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:          resp.ID,
		CustomerID:  resp.CustomerID,
		ScheduledAt: resp.ScheduledAt.Format(time.RFC3339),
		Status:      resp.Status,
		Notes:       resp.Notes,
		Items:       make([]ItemResponse, len(resp.Items)),
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}

	for i, item := range resp.Items {
		out.Items[i] = ItemResponse{
			ID:              item.ID,
			AppointmentID:   item.AppointmentID,
			ServiceID:       item.ServiceID,
			StaffID:         item.StaffID,
			ScheduledTime:   item.ScheduledTime.Format(time.RFC3339),
			ServiceName:     item.ServiceName,
			PriceCents:      item.PriceCents,
			DurationMinutes: item.DurationMinutes,
			Status:          item.Status,
		}
	}

	return out
}
