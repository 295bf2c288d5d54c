package create_appointment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
	"github.com/barber-crm/AppointmentService/pkg/ptr"
	"github.com/barber-crm/AppointmentService/pkg/types"
)

func scheduledItem(staffID int64, start time.Time, durationMinutes int) *domain.AppointmentItem {
	return &domain.AppointmentItem{
		StaffID:         ptr.Ptr(staffID),
		ScheduledTime:   start,
		DurationMinutes: durationMinutes,
		Status:          domain.ItemStatusPending,
	}
}

func testStaff(workStart, workEnd string) *catalogservice.Staff {
	ws, _ := types.NewTimeStringFromString(workStart)
	we, _ := types.NewTimeStringFromString(workEnd)
	return &catalogservice.Staff{
		ID:        1,
		Name:      "Иван",
		Active:    true,
		WorkStart: ws,
		WorkEnd:   we,
	}
}

func TestHasConflict_Overlap(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	existing := []*domain.AppointmentItem{
		scheduledItem(1, day.Add(14*time.Hour), 30), // 14:00-14:30
	}

	// Частичное пересечение с обеих сторон
	assert.True(t, hasConflict(day.Add(14*time.Hour+15*time.Minute), 30, existing))
	assert.True(t, hasConflict(day.Add(13*time.Hour+45*time.Minute), 30, existing))

	// Кандидат целиком внутри существующей позиции
	assert.True(t, hasConflict(day.Add(14*time.Hour+10*time.Minute), 10, existing))

	// Существующая позиция целиком внутри кандидата
	assert.True(t, hasConflict(day.Add(13*time.Hour+30*time.Minute), 120, existing))
}

func TestHasConflict_AbuttingBoundaries(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	existing := []*domain.AppointmentItem{
		scheduledItem(1, day.Add(14*time.Hour), 30), // 14:00-14:30
	}

	// Граничащие интервалы не конфликтуют: конец == начало
	assert.False(t, hasConflict(day.Add(14*time.Hour+30*time.Minute), 30, existing))
	assert.False(t, hasConflict(day.Add(13*time.Hour+30*time.Minute), 30, existing))
}

func TestHasConflict_ZeroDuration(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	existing := []*domain.AppointmentItem{
		scheduledItem(1, day.Add(14*time.Hour), 30),
	}

	// Кандидат нулевой длительности - пустой интервал, не конфликтует
	assert.False(t, hasConflict(day.Add(14*time.Hour+15*time.Minute), 0, existing))

	// Существующая позиция нулевой длительности никого не блокирует
	zeroExisting := []*domain.AppointmentItem{
		scheduledItem(1, day.Add(14*time.Hour), 0),
	}
	assert.False(t, hasConflict(day.Add(13*time.Hour+45*time.Minute), 60, zeroExisting))
}

func TestHasConflict_UnassignedStaffDoesNotBlock(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Позиции без назначенного мастера не участвуют в проверке
	unassigned := &domain.AppointmentItem{
		StaffID:         nil,
		ScheduledTime:   day.Add(14 * time.Hour),
		DurationMinutes: 30,
		Status:          domain.ItemStatusPending,
	}

	assert.False(t, hasConflict(day.Add(14*time.Hour), 30, []*domain.AppointmentItem{unassigned}))
}

func TestWithinWorkingHours(t *testing.T) {
	staff := testStaff("09:00", "18:00")
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Обе границы включительно
	assert.True(t, withinWorkingHours(staff, day.Add(9*time.Hour)))
	assert.True(t, withinWorkingHours(staff, day.Add(18*time.Hour)))
	assert.True(t, withinWorkingHours(staff, day.Add(12*time.Hour+30*time.Minute)))

	// До начала рабочего дня
	assert.False(t, withinWorkingHours(staff, day.Add(8*time.Hour+30*time.Minute)))

	// После конца рабочего дня
	assert.False(t, withinWorkingHours(staff, day.Add(18*time.Hour+1*time.Minute)))

	// Проверяется только время начала: 17:55 в окне,
	// даже если услуга закончится после 18:00
	assert.True(t, withinWorkingHours(staff, day.Add(17*time.Hour+55*time.Minute)))
}

func TestConflictSearchWindow(t *testing.T) {
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)

	from, to := conflictSearchWindow(start, 30)

	window := time.Duration(domain.ConflictSearchWindowMinutes) * time.Minute
	assert.Equal(t, start.Add(-window), from)
	assert.Equal(t, start.Add(30*time.Minute).Add(window), to)
}

func TestValidateRequest(t *testing.T) {
	day := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)

	valid := func() *Request {
		return &Request{
			CustomerID:  1,
			ScheduledAt: day,
			Items: []ItemRequest{
				{ServiceID: 1, StaffID: ptr.Ptr(int64(2)), ScheduledTime: day},
			},
		}
	}

	require.NoError(t, validateRequest(valid()))

	t.Run("non-positive customer", func(t *testing.T) {
		req := valid()
		req.CustomerID = 0
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("empty items", func(t *testing.T) {
		req := valid()
		req.Items = nil
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("too many items", func(t *testing.T) {
		req := valid()
		req.Items = make([]ItemRequest, domain.MaxItemsPerAppointment+1)
		for i := range req.Items {
			req.Items[i] = ItemRequest{ServiceID: 1, ScheduledTime: day}
		}
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("notes too long", func(t *testing.T) {
		req := valid()
		req.Notes = ptr.Ptr(strings.Repeat("a", domain.MaxNotesLength+1))
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("non-positive service id", func(t *testing.T) {
		req := valid()
		req.Items[0].ServiceID = 0
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("non-positive staff id", func(t *testing.T) {
		req := valid()
		req.Items[0].StaffID = ptr.Ptr(int64(0))
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("zero scheduled time", func(t *testing.T) {
		req := valid()
		req.Items[0].ScheduledTime = time.Time{}
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})
}
