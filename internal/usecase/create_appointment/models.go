package create_appointment

import (
	"time"

	"github.com/barber-crm/AppointmentService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID  int64         // ID клиента (явный параметр, не контекст запроса)
	ScheduledAt time.Time     // Номинальное время записи (для отображения/группировки)
	Notes       *string       // Дополнительные заметки (опционально)
	Items       []ItemRequest // Позиции записи, обрабатываются в порядке списка
}

// ItemRequest одна запрошенная позиция: услуга + опциональный мастер + время
type ItemRequest struct {
	ServiceID     int64     // ID услуги
	StaffID       *int64    // ID мастера (nil = без назначения, проверки конфликтов не выполняются)
	ScheduledTime time.Time // Абсолютное время начала позиции
}

// Response модель ответа с созданной записью
type Response struct {
	ID          int64          // ID созданной записи
	CustomerID  int64          // ID клиента
	ScheduledAt time.Time      // Номинальное время записи
	Status      string         // Статус записи
	Notes       *string        // Заметки
	Items       []ItemResponse // Созданные позиции

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// ItemResponse одна созданная позиция записи
type ItemResponse struct {
	ID            int64     // ID позиции
	AppointmentID int64     // ID записи-владельца
	ServiceID     int64     // ID услуги
	StaffID       *int64    // ID мастера (nil = без назначения)
	ScheduledTime time.Time // Время начала

	// Снимок данных услуги на момент бронирования
	ServiceName     string // Название услуги
	PriceCents      int64  // Цена в копейках
	DurationMinutes int    // Длительность в минутах

	Status string // Статус позиции
}

// fromDomain конвертирует domain модель в response
func fromDomain(appt *domain.Appointment) *Response {
	resp := &Response{
		ID:          appt.ID,
		CustomerID:  appt.CustomerID,
		ScheduledAt: appt.ScheduledAt,
		Status:      string(appt.Status),
		Notes:       appt.Notes,
		Items:       make([]ItemResponse, len(appt.Items)),
		CreatedAt:   appt.CreatedAt,
		UpdatedAt:   appt.UpdatedAt,
	}

	for i, item := range appt.Items {
		resp.Items[i] = ItemResponse{
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

	return resp
}
