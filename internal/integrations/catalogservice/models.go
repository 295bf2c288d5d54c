package catalogservice

import "github.com/barber-crm/AppointmentService/pkg/types"

// Service модель услуги из CatalogService.
// PriceCents - цена в копейках/центах, DurationMinutes - длительность.
type Service struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
	Active          bool   `json:"active"`
}

// Staff модель мастера из CatalogService.
// WorkStart/WorkEnd - ежедневное рабочее окно в формате "HH:MM".
type Staff struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Specialties string           `json:"specialties"`
	Active      bool             `json:"active"`
	WorkStart   types.TimeString `json:"work_start"`
	WorkEnd     types.TimeString `json:"work_end"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
