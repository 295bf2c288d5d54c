package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
	"github.com/barber-crm/AppointmentService/pkg/ptr"
	"github.com/barber-crm/AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeScheduleRepo struct {
	items    []*domain.AppointmentItem
	lastFrom time.Time
	lastTo   time.Time
}

func (r *fakeScheduleRepo) FindStaffSchedule(_ context.Context, _ int64, dayStart, dayEnd time.Time) ([]*domain.AppointmentItem, error) {
	r.lastFrom = dayStart
	r.lastTo = dayEnd
	return r.items, nil
}

type fakeApptRepo struct {
	appts []*domain.Appointment
}

func (r *fakeApptRepo) GetByDate(_ context.Context, _ time.Time) ([]*domain.Appointment, error) {
	return r.appts, nil
}

func (r *fakeApptRepo) GetBetween(_ context.Context, _, _ time.Time) ([]*domain.Appointment, error) {
	return r.appts, nil
}

type fakeCatalogClient struct {
	staff map[int64]*catalogservice.Staff
}

func (c *fakeCatalogClient) GetStaff(_ context.Context, staffID int64) (*catalogservice.Staff, error) {
	staff, ok := c.staff[staffID]
	if !ok {
		return nil, catalogservice.ErrStaffNotFound
	}
	return staff, nil
}

func newTestService(t *testing.T, items ...*domain.AppointmentItem) (*Service, *fakeScheduleRepo) {
	t.Helper()

	workStart, err := types.NewTimeStringFromString("09:00")
	require.NoError(t, err)
	workEnd, err := types.NewTimeStringFromString("18:00")
	require.NoError(t, err)

	scheduleRepo := &fakeScheduleRepo{items: items}
	catalogClient := &fakeCatalogClient{staff: map[int64]*catalogservice.Staff{
		100: {ID: 100, Name: "Иван", Active: true, WorkStart: workStart, WorkEnd: workEnd},
	}}

	svc := NewService(scheduleRepo, &fakeApptRepo{}, catalogClient, nopLogger{})
	return svc, scheduleRepo
}

func TestStaffSchedule(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	item := &domain.AppointmentItem{
		ID:              1,
		StaffID:         ptr.Ptr(int64(100)),
		ServiceName:     "Стрижка",
		ScheduledTime:   date.Add(14 * time.Hour),
		DurationMinutes: 30,
		Status:          domain.ItemStatusPending,
	}

	svc, scheduleRepo := newTestService(t, item)

	result, err := svc.StaffSchedule(context.Background(), 100, date)
	require.NoError(t, err)

	assert.Equal(t, "Иван", result.Staff.Name)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Стрижка", result.Items[0].ServiceName)

	// Выборка покрывает полные сутки
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), scheduleRepo.lastFrom)
	assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC), scheduleRepo.lastTo)
}

func TestStaffSchedule_StaffNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StaffSchedule(context.Background(), 999, time.Now())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestStaffSchedule_InvalidStaffID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StaffSchedule(context.Background(), 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAppointmentsBetween_InvalidPeriod(t *testing.T) {
	svc, _ := newTestService(t)

	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err := svc.AppointmentsBetween(context.Background(), start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
