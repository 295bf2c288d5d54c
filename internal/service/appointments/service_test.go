package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barber-crm/AppointmentService/internal/domain"
	appointmentRepo "github.com/barber-crm/AppointmentService/internal/infra/storage/appointment"
	"github.com/barber-crm/AppointmentService/pkg/ptr"
)

// Фейки зависимостей сервиса

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// fakeApptRepo хранит записи в памяти и повторяет контракт репозитория
type fakeApptRepo struct {
	appts map[int64]*domain.Appointment
}

func newFakeApptRepo(appts ...*domain.Appointment) *fakeApptRepo {
	repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{}}
	for _, appt := range appts {
		repo.appts[appt.ID] = appt
	}
	return repo
}

func (r *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (r *fakeApptRepo) GetByCustomerID(_ context.Context, customerID int64, limit, offset uint64) ([]*domain.Appointment, int64, error) {
	var result []*domain.Appointment
	for _, appt := range r.appts {
		if appt.CustomerID == customerID {
			result = append(result, appt)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeApptRepo) GetAll(_ context.Context, limit, offset uint64) ([]*domain.Appointment, int64, error) {
	var result []*domain.Appointment
	for _, appt := range r.appts {
		result = append(result, appt)
	}
	return result, int64(len(result)), nil
}

func (r *fakeApptRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	appt, ok := r.appts[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

func (r *fakeApptRepo) CancelWithItems(_ context.Context, id int64) error {
	appt, ok := r.appts[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	appt.Status = domain.StatusCancelled
	for i := range appt.Items {
		appt.Items[i].Status = domain.ItemStatusCancelled
	}
	return nil
}

func (r *fakeApptRepo) CompleteWithItems(_ context.Context, id int64) error {
	appt, ok := r.appts[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	appt.Status = domain.StatusCompleted
	for i := range appt.Items {
		// Отменённые позиции сохраняют свой статус
		if appt.Items[i].Status != domain.ItemStatusCancelled {
			appt.Items[i].Status = domain.ItemStatusCompleted
		}
	}
	return nil
}

func testAppointment(id, customerID int64, status domain.AppointmentStatus) *domain.Appointment {
	scheduledAt := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:          id,
		CustomerID:  customerID,
		ScheduledAt: scheduledAt,
		Status:      status,
		Items: []domain.AppointmentItem{
			{
				ID:              1,
				AppointmentID:   id,
				ServiceID:       10,
				StaffID:         ptr.Ptr(int64(100)),
				ServiceName:     "Стрижка",
				PriceCents:      150000,
				DurationMinutes: 30,
				ScheduledTime:   scheduledAt,
				Status:          domain.ItemStatusPending,
			},
			{
				ID:              2,
				AppointmentID:   id,
				ServiceID:       11,
				ServiceName:     "Бритьё",
				PriceCents:      80000,
				DurationMinutes: 15,
				ScheduledTime:   scheduledAt.Add(30 * time.Minute),
				Status:          domain.ItemStatusCancelled,
			},
		},
	}
}

func newService(repo *fakeApptRepo) (*Service, *fakeTxManager) {
	txManager := &fakeTxManager{}
	return NewService(repo, txManager, nopLogger{}), txManager
}

func TestGetByID(t *testing.T) {
	repo := newFakeApptRepo(testAppointment(1, 42, domain.StatusPending))
	svc, _ := newService(repo)

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Len(t, resp.Items, 2)

	_, err = svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_ByOwner(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusConfirmed)
	repo := newFakeApptRepo(appt)
	svc, txManager := newService(repo)

	err := svc.Cancel(context.Background(), 1, 42)
	require.NoError(t, err)

	// Отмена каскадная: запись и все позиции
	assert.Equal(t, domain.StatusCancelled, appt.Status)
	for _, item := range appt.Items {
		assert.Equal(t, domain.ItemStatusCancelled, item.Status)
	}
	assert.Equal(t, 1, txManager.calls)
}

func TestCancel_NotOwner(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusPending)
	repo := newFakeApptRepo(appt)
	svc, _ := newService(repo)

	err := svc.Cancel(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, appt.Status)
}

func TestCancel_CompletedAppointment(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusCompleted)
	repo := newFakeApptRepo(appt)
	svc, _ := newService(repo)

	// Завершённую запись отменить нельзя
	err := svc.Cancel(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCompleted, appt.Status)
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := newService(newFakeApptRepo())

	err := svc.Cancel(context.Background(), 999, 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestConfirm(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusPending)
	repo := newFakeApptRepo(appt)
	svc, _ := newService(repo)

	require.NoError(t, svc.Confirm(context.Background(), 1))
	assert.Equal(t, domain.StatusConfirmed, appt.Status)

	// Повторное подтверждение недопустимо: запись уже не pending
	err := svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirm_CancelledAppointment(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusCancelled)
	repo := newFakeApptRepo(appt)
	svc, _ := newService(repo)

	err := svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCancelled, appt.Status)
}

func TestComplete(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusConfirmed)
	repo := newFakeApptRepo(appt)
	svc, txManager := newService(repo)

	require.NoError(t, svc.Complete(context.Background(), 1))

	assert.Equal(t, domain.StatusCompleted, appt.Status)

	// Обычные позиции завершаются, отменённые сохраняют статус
	assert.Equal(t, domain.ItemStatusCompleted, appt.Items[0].Status)
	assert.Equal(t, domain.ItemStatusCancelled, appt.Items[1].Status)
	assert.Equal(t, 1, txManager.calls)
}

func TestUpdateStatus_NoShow(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusConfirmed)
	repo := newFakeApptRepo(appt)
	svc, _ := newService(repo)

	// no_show выставляется только прямым обновлением статуса
	require.NoError(t, svc.UpdateStatus(context.Background(), 1, "no_show"))
	assert.Equal(t, domain.StatusNoShow, appt.Status)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	appt := testAppointment(1, 42, domain.StatusPending)
	repo := newFakeApptRepo(appt)
	svc, _ := newService(repo)

	err := svc.UpdateStatus(context.Background(), 1, "unknown")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, domain.StatusPending, appt.Status)
}

func TestGetCustomerAppointments_Pagination(t *testing.T) {
	repo := newFakeApptRepo(
		testAppointment(1, 42, domain.StatusPending),
		testAppointment(2, 42, domain.StatusConfirmed),
		testAppointment(3, 7, domain.StatusPending),
	)
	svc, _ := newService(repo)

	resp, err := svc.GetCustomerAppointments(context.Background(), 42, 0, 0)
	require.NoError(t, err)

	// Нулевые параметры заменяются значениями по умолчанию
	assert.Equal(t, uint64(1), resp.Page)
	assert.Equal(t, uint64(domain.DefaultPageSize), resp.PageSize)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Appointments, 2)

	// Размер страницы ограничен сверху
	resp, err = svc.GetCustomerAppointments(context.Background(), 42, 1, domain.MaxPageSize+50)
	require.NoError(t, err)
	assert.Equal(t, uint64(domain.MaxPageSize), resp.PageSize)
}

func TestGetCustomerAppointments_InvalidCustomer(t *testing.T) {
	svc, _ := newService(newFakeApptRepo())

	_, err := svc.GetCustomerAppointments(context.Background(), 0, 1, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
