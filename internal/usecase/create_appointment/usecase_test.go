package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
	"github.com/barber-crm/AppointmentService/internal/integrations/userservice"
	"github.com/barber-crm/AppointmentService/pkg/ptr"
	"github.com/barber-crm/AppointmentService/pkg/types"
)

// Фейки зависимостей use case

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeApptRepo struct {
	created []*domain.Appointment
	err     error
}

func (r *fakeApptRepo) CreateWithItems(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}

	stored := *appt
	stored.ID = int64(len(r.created) + 1)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	for i := range stored.Items {
		stored.Items[i].ID = int64(i + 1)
		stored.Items[i].AppointmentID = stored.ID
	}

	r.created = append(r.created, &stored)
	return &stored, nil
}

type fakeScheduleRepo struct {
	itemsByStaff map[int64][]*domain.AppointmentItem
	// itemsOnRetry подменяет ответ начиная со второго вызова -
	// имитирует позицию, зафиксированную конкурентной транзакцией
	itemsOnRetry map[int64][]*domain.AppointmentItem
	calls        int
}

func (r *fakeScheduleRepo) FindNonCancelledItems(_ context.Context, staffID int64, _, _ time.Time) ([]*domain.AppointmentItem, error) {
	r.calls++
	if r.calls > 1 && r.itemsOnRetry != nil {
		return r.itemsOnRetry[staffID], nil
	}
	return r.itemsByStaff[staffID], nil
}

type fakeUserClient struct {
	users map[int64]*userservice.User
}

func (c *fakeUserClient) GetUser(_ context.Context, userID int64) (*userservice.User, error) {
	user, ok := c.users[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return user, nil
}

type fakeCatalogClient struct {
	services map[int64]*catalogservice.Service
	staff    map[int64]*catalogservice.Staff
}

func (c *fakeCatalogClient) GetService(_ context.Context, serviceID int64) (*catalogservice.Service, error) {
	service, ok := c.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return service, nil
}

func (c *fakeCatalogClient) GetStaff(_ context.Context, staffID int64) (*catalogservice.Staff, error) {
	staff, ok := c.staff[staffID]
	if !ok {
		return nil, catalogservice.ErrStaffNotFound
	}
	return staff, nil
}

// fakeTxManager выполняет fn без транзакции; первые failFirst вызовов
// завершаются заданной ошибкой после выполнения fn
type fakeTxManager struct {
	failFirst int
	failWith  error
	calls     int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	if m.calls <= m.failFirst {
		return m.failWith
	}
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

// Сборка окружения теста

type testEnv struct {
	uc           *UseCase
	apptRepo     *fakeApptRepo
	scheduleRepo *fakeScheduleRepo
	txManager    *fakeTxManager
	now          time.Time
}

func mustTimeString(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	apptRepo := &fakeApptRepo{}
	scheduleRepo := &fakeScheduleRepo{itemsByStaff: map[int64][]*domain.AppointmentItem{}}
	txManager := &fakeTxManager{}

	userClient := &fakeUserClient{users: map[int64]*userservice.User{
		1: {ID: 1, Name: "Пётр", IsActive: true},
	}}

	catalogClient := &fakeCatalogClient{
		services: map[int64]*catalogservice.Service{
			10: {ID: 10, Name: "Стрижка", PriceCents: 150000, DurationMinutes: 30, Active: true},
			11: {ID: 11, Name: "Бритьё", PriceCents: 80000, DurationMinutes: 15, Active: true},
			12: {ID: 12, Name: "Окрашивание", PriceCents: 300000, DurationMinutes: 90, Active: false},
		},
		staff: map[int64]*catalogservice.Staff{
			100: {ID: 100, Name: "Иван", Active: true,
				WorkStart: mustTimeString(t, "09:00"), WorkEnd: mustTimeString(t, "18:00")},
			101: {ID: 101, Name: "Олег", Active: false,
				WorkStart: mustTimeString(t, "09:00"), WorkEnd: mustTimeString(t, "18:00")},
		},
	}

	uc := NewUseCase(apptRepo, scheduleRepo, userClient, catalogClient, txManager, nopLogger{})

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &testEnv{
		uc:           uc,
		apptRepo:     apptRepo,
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		now:          now,
	}
}

func (e *testEnv) request(items ...ItemRequest) *Request {
	return &Request{
		CustomerID:  1,
		ScheduledAt: e.now.Add(24 * time.Hour),
		Items:       items,
	}
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	req := env.request(
		ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), ScheduledTime: start},
		ItemRequest{ServiceID: 11, ScheduledTime: start.Add(30 * time.Minute)},
	)

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	require.Len(t, resp.Items, 2)

	// Снимок цены и длительности из каталога
	assert.Equal(t, "Стрижка", resp.Items[0].ServiceName)
	assert.Equal(t, int64(150000), resp.Items[0].PriceCents)
	assert.Equal(t, 30, resp.Items[0].DurationMinutes)
	assert.Equal(t, string(domain.ItemStatusPending), resp.Items[0].Status)

	assert.Equal(t, "Бритьё", resp.Items[1].ServiceName)
	assert.Nil(t, resp.Items[1].StaffID)

	require.Len(t, env.apptRepo.created, 1)
}

func TestExecute_AppointmentInPast(t *testing.T) {
	env := newTestEnv(t)

	req := env.request(ItemRequest{ServiceID: 10, ScheduledTime: env.now.Add(-time.Hour)})
	req.ScheduledAt = env.now.Add(-time.Hour)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentInPast)
	assert.Empty(t, env.apptRepo.created)
}

func TestExecute_EmptyItems(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Execute(context.Background(), env.request())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, env.txManager.calls)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	req := env.request(ItemRequest{ServiceID: 10, ScheduledTime: start})
	req.CustomerID = 999

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Empty(t, env.apptRepo.created)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	_, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 999, ScheduledTime: start}))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceInactive(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	_, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 12, ScheduledTime: start}))
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_StaffInactive(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	_, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(101)), ScheduledTime: start}))
	assert.ErrorIs(t, err, ErrStaffInactive)
}

func TestExecute_SchedulingConflict(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour) // 15 марта 12:00

	// Мастер занят 11:45-12:15
	env.scheduleRepo.itemsByStaff[100] = []*domain.AppointmentItem{
		{
			StaffID:         ptr.Ptr(int64(100)),
			ScheduledTime:   start.Add(-15 * time.Minute),
			DurationMinutes: 30,
			Status:          domain.ItemStatusPending,
		},
	}

	_, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), ScheduledTime: start}))
	assert.ErrorIs(t, err, ErrSchedulingConflict)
	assert.Empty(t, env.apptRepo.created)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	env := newTestEnv(t)

	// 08:30 следующего дня - до начала рабочего дня (09:00)
	day := env.now.Add(24 * time.Hour)
	start := time.Date(day.Year(), day.Month(), day.Day(), 8, 30, 0, 0, time.UTC)

	req := env.request(ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), ScheduledTime: start})

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	assert.Empty(t, env.apptRepo.created)
}

func TestExecute_UnassignedStaffSkipsChecks(t *testing.T) {
	env := newTestEnv(t)

	// Без мастера позиция не проверяется ни на конфликты, ни на рабочие часы
	day := env.now.Add(24 * time.Hour)
	start := time.Date(day.Year(), day.Month(), day.Day(), 3, 0, 0, 0, time.UTC)

	resp, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 10, ScheduledTime: start}))
	require.NoError(t, err)

	assert.Zero(t, env.scheduleRepo.calls)
	require.Len(t, resp.Items, 1)
	assert.Nil(t, resp.Items[0].StaffID)
}

func TestExecute_FailFastOnSecondItem(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	// Первая позиция валидна, вторая указывает на несуществующую услугу
	req := env.request(
		ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), ScheduledTime: start},
		ItemRequest{ServiceID: 999, ScheduledTime: start.Add(30 * time.Minute)},
	)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	// Ничего не сохранено - частичных записей не бывает
	assert.Empty(t, env.apptRepo.created)
}

func TestExecute_SerializationFailureRetriesOnce(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	// Первая попытка завершается serialization failure, вторая проходит
	env.txManager.failFirst = 1
	env.txManager.failWith = errors.New("pq: could not serialize access due to concurrent update")

	resp, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), ScheduledTime: start}))
	require.NoError(t, err)

	assert.Equal(t, 2, env.txManager.calls)
	assert.NotNil(t, resp)
}

func TestExecute_SerializationFailureExhaustsRetries(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	// Обе попытки завершаются serialization failure
	env.txManager.failFirst = 2
	env.txManager.failWith = errors.New("pq: could not serialize access due to concurrent update")

	_, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), ScheduledTime: start}))
	assert.ErrorIs(t, err, ErrSchedulingConflict)
	assert.Equal(t, 2, env.txManager.calls)
}

func TestExecute_RetryRevalidatesAgainstCommittedConflict(t *testing.T) {
	env := newTestEnv(t)
	start := env.now.Add(24 * time.Hour)

	// Первая попытка обрывается serialization failure; к моменту повтора
	// конкурентная транзакция уже заняла слот
	env.txManager.failFirst = 1
	env.txManager.failWith = errors.New("pq: could not serialize access due to concurrent update")
	env.scheduleRepo.itemsOnRetry = map[int64][]*domain.AppointmentItem{
		100: {scheduledItem(100, start, 30)},
	}

	_, err := env.uc.Execute(context.Background(),
		env.request(ItemRequest{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), ScheduledTime: start}))
	assert.ErrorIs(t, err, ErrSchedulingConflict)

	// Повтор выполнил проверку занятости заново и увидел новую позицию
	assert.Equal(t, 2, env.txManager.calls)
	assert.Equal(t, 2, env.scheduleRepo.calls)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("connection refused")))
	assert.True(t, isSerializationFailure(errors.New("pq: could not serialize access due to read/write dependencies")))
	assert.True(t, isSerializationFailure(errors.New("pq: deadlock detected")))
}
