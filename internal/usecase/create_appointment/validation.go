package create_appointment

import (
	"fmt"
	"time"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
	"github.com/barber-crm/AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}

	// Запись обязана содержать хотя бы одну позицию
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}

	if len(req.Items) > domain.MaxItemsPerAppointment {
		return fmt.Errorf("%w: too many items (max %d)", ErrInvalidInput, domain.MaxItemsPerAppointment)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long (max %d characters)", ErrInvalidInput, domain.MaxNotesLength)
	}

	for i, item := range req.Items {
		if item.ServiceID <= 0 {
			return fmt.Errorf("%w: item %d: serviceID must be positive", ErrInvalidInput, i)
		}
		if item.StaffID != nil && *item.StaffID <= 0 {
			return fmt.Errorf("%w: item %d: staffID must be positive", ErrInvalidInput, i)
		}
		if item.ScheduledTime.IsZero() {
			return fmt.Errorf("%w: item %d: scheduledTime is required", ErrInvalidInput, i)
		}
	}

	return nil
}

// hasConflict проверяет пересечение интервала кандидата
// [candidateStart, candidateStart + duration) с существующими позициями.
//
// Интервалы полуоткрытые: граничащие позиции (конец одной == начало
// другой) НЕ конфликтуют. Позиция нулевой длительности - пустой интервал,
// она не конфликтует ни с чем и ничего не блокирует.
func hasConflict(candidateStart time.Time, durationMinutes int, existing []*domain.AppointmentItem) bool {
	if durationMinutes <= 0 {
		return false
	}

	candidateEnd := candidateStart.Add(time.Duration(durationMinutes) * time.Minute)

	for _, item := range existing {
		// Позиции без мастера не блокируют расписание
		if item.StaffID == nil {
			continue
		}

		if item.Overlaps(candidateStart, candidateEnd) {
			return true
		}
	}

	return false
}

// withinWorkingHours проверяет, что время суток начала позиции попадает
// в рабочее окно мастера: workStart <= t <= workEnd, обе границы
// включительно. Окончание позиции намеренно не проверяется.
func withinWorkingHours(staff *catalogservice.Staff, candidateStart time.Time) bool {
	timeOfDay := types.NewTimeString(candidateStart)

	if timeOfDay.IsBefore(staff.WorkStart) {
		return false
	}
	if timeOfDay.IsAfter(staff.WorkEnd) {
		return false
	}

	return true
}

// conflictSearchWindow возвращает окно выборки потенциальных конфликтов
// вокруг интервала кандидата. Окно шире интервала на
// ConflictSearchWindowMinutes с обеих сторон, чтобы захватить позиции,
// начавшиеся до кандидата, но ещё не закончившиеся.
func conflictSearchWindow(candidateStart time.Time, durationMinutes int) (time.Time, time.Time) {
	candidateEnd := candidateStart.Add(time.Duration(durationMinutes) * time.Minute)

	window := time.Duration(domain.ConflictSearchWindowMinutes) * time.Minute
	return candidateStart.Add(-window), candidateEnd.Add(window)
}
