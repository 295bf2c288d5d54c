package schedule

import (
	"context"
	"time"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	FindStaffSchedule(ctx context.Context, staffID int64, dayStart, dayEnd time.Time) ([]*domain.AppointmentItem, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	GetBetween(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error)
}

// CatalogServiceClient интерфейс клиента CatalogService
type CatalogServiceClient interface {
	GetStaff(ctx context.Context, staffID int64) (*catalogservice.Staff, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
