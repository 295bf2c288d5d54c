package get_staff_schedule

import (
	"time"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/service/schedule"
)

// StaffScheduleResponse расписание мастера на день
type StaffScheduleResponse struct {
	StaffID   int64                  `json:"staffId"`
	StaffName string                 `json:"staffName"`
	Date      string                 `json:"date"`
	WorkStart string                 `json:"workStart"`
	WorkEnd   string                 `json:"workEnd"`
	Items     []ScheduleItemResponse `json:"items"`
}

// ScheduleItemResponse одна занятая позиция в расписании
type ScheduleItemResponse struct {
	ID              int64  `json:"id"`
	AppointmentID   int64  `json:"appointmentId"`
	ServiceID       int64  `json:"serviceId"`
	ServiceName     string `json:"serviceName"`
	ScheduledTime   string `json:"scheduledTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
}

// FromScheduleResult конвертирует результат сервиса в HTTP response
func FromScheduleResult(result *schedule.StaffScheduleResult, date time.Time) *StaffScheduleResponse {
	resp := &StaffScheduleResponse{
		StaffID:   result.Staff.ID,
		StaffName: result.Staff.Name,
		Date:      date.Format(domain.DateFormat),
		WorkStart: result.Staff.WorkStart.String(),
		WorkEnd:   result.Staff.WorkEnd.String(),
		Items:     make([]ScheduleItemResponse, len(result.Items)),
	}

	for i, item := range result.Items {
		resp.Items[i] = ScheduleItemResponse{
			ID:              item.ID,
			AppointmentID:   item.AppointmentID,
			ServiceID:       item.ServiceID,
			ServiceName:     item.ServiceName,
			ScheduledTime:   item.ScheduledTime.Format(time.RFC3339),
			DurationMinutes: item.DurationMinutes,
			Status:          string(item.Status),
		}
	}

	return resp
}
