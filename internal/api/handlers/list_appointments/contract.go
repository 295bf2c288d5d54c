package list_appointments

import (
	"context"
	"time"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetAllAppointments(ctx context.Context, page, pageSize uint64) (*models.AppointmentPageResponse, error)
}

type ScheduleService interface {
	AppointmentsOnDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	AppointmentsBetween(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
