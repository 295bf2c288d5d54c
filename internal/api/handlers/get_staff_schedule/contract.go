package get_staff_schedule

import (
	"context"
	"time"

	"github.com/barber-crm/AppointmentService/internal/service/schedule"
)

type ScheduleService interface {
	StaffSchedule(ctx context.Context, staffID int64, date time.Time) (*schedule.StaffScheduleResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
