package get_customer_appointments

import (
	"context"

	"github.com/barber-crm/AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetCustomerAppointments(ctx context.Context, customerID int64, page, pageSize uint64) (*models.AppointmentPageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
