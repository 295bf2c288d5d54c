package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/barber-crm/AppointmentService/internal/domain"
	catalogClient "github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
	userClient "github.com/barber-crm/AppointmentService/internal/integrations/userservice"
)

// maxSerializationRetries сколько раз повторяем транзакцию после
// serialization failure, прежде чем вернуть конфликт вызывающему
const maxSerializationRetries = 1

// UseCase use case создания записи: валидация мульти-позиционного
// запроса, проверка доступности и рабочих часов по каждой позиции,
// атомарное сохранение записи со всеми позициями
type UseCase struct {
	apptRepo      AppointmentRepository
	scheduleRepo  ScheduleRepository
	userClient    UserServiceClient
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	userClient UserServiceClient,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:      apptRepo,
		scheduleRepo:  scheduleRepo,
		userClient:    userClient,
		catalogClient: catalogClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания записи.
//
// Вся последовательность check-then-act (чтение конфликтов по каждой
// позиции + вставка записи с позициями) выполняется в одной
// SERIALIZABLE транзакции. Гонка двух конкурентных запросов на
// пересекающееся время одного мастера завершается serialization
// failure у проигравшего; транзакция перезапускается один раз с полной
// повторной валидацией, после чего конфликт отдаётся вызывающему.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, scheduledAt=%s, items=%d",
		req.CustomerID, req.ScheduledAt.Format(domain.DateFormat+" "+domain.TimeFormat), len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Запись должна быть строго в будущем
	now := uc.timeProvider.Now()
	if !req.ScheduledAt.After(now) {
		uc.logger.Warn("CreateAppointment: appointment time %s is not in the future", req.ScheduledAt)
		return nil, ErrAppointmentInPast
	}

	var result *domain.Appointment

	// 3. Выполняем бронирование, повторяя транзакцию при serialization failure
	for attempt := 0; ; attempt++ {
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			created, err := uc.book(txCtx, req)
			if err != nil {
				return err
			}
			result = created
			return nil
		})

		if err == nil {
			break
		}

		if isSerializationFailure(err) {
			if attempt < maxSerializationRetries {
				uc.logger.Warn("CreateAppointment: serialization failure, retrying (attempt %d): %v", attempt+1, err)
				continue
			}
			// Повтор исчерпан: гонка за одно и то же время мастера
			uc.logger.Warn("CreateAppointment: serialization failure after retry, reporting conflict: %v", err)
			return nil, ErrSchedulingConflict
		}

		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d with %d items",
		result.ID, len(result.Items))

	return fromDomain(result), nil
}

// book выполняет полную проверку и сохранение внутри транзакции.
// Позиции обрабатываются строго в порядке запроса; первая ошибка
// прерывает операцию целиком - частичных бронирований не бывает.
func (uc *UseCase) book(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// Проверяем существование клиента
	if _, err := uc.userClient.GetUser(ctx, req.CustomerID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	items := make([]domain.AppointmentItem, 0, len(req.Items))

	for i, itemReq := range req.Items {
		item, err := uc.buildItem(ctx, i, itemReq)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	appt := &domain.Appointment{
		CustomerID:  req.CustomerID,
		ScheduledAt: req.ScheduledAt,
		Status:      domain.StatusPending,
		Notes:       req.Notes,
		Items:       items,
	}

	created, err := uc.apptRepo.CreateWithItems(ctx, appt)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to persist appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to persist appointment: %v", ErrInternal, err)
	}

	return created, nil
}

// buildItem валидирует одну позицию запроса и материализует её
// со снимком цены и длительности услуги на момент бронирования
func (uc *UseCase) buildItem(ctx context.Context, idx int, itemReq ItemRequest) (*domain.AppointmentItem, error) {
	// Получаем услугу
	service, err := uc.catalogClient.GetService(ctx, itemReq.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: item %d: service id=%d not found", idx, itemReq.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: item %d: failed to get service id=%d: %v", idx, itemReq.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.Active {
		uc.logger.Warn("CreateAppointment: item %d: service id=%d is not active", idx, itemReq.ServiceID)
		return nil, fmt.Errorf("%w: %s", ErrServiceInactive, service.Name)
	}

	// Проверки мастера выполняются только при явном назначении
	if itemReq.StaffID != nil {
		staff, err := uc.catalogClient.GetStaff(ctx, *itemReq.StaffID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrStaffNotFound) {
				uc.logger.Warn("CreateAppointment: item %d: staff id=%d not found", idx, *itemReq.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("CreateAppointment: item %d: failed to get staff id=%d: %v", idx, *itemReq.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		if !staff.Active {
			uc.logger.Warn("CreateAppointment: item %d: staff id=%d is not active", idx, *itemReq.StaffID)
			return nil, ErrStaffInactive
		}

		// Проверяем доступность мастера
		from, to := conflictSearchWindow(itemReq.ScheduledTime, service.DurationMinutes)
		existing, err := uc.scheduleRepo.FindNonCancelledItems(ctx, *itemReq.StaffID, from, to)
		if err != nil {
			uc.logger.Error("CreateAppointment: item %d: failed to fetch schedule for staff id=%d: %v",
				idx, *itemReq.StaffID, err)
			return nil, fmt.Errorf("%w: failed to fetch staff schedule: %v", ErrInternal, err)
		}

		if hasConflict(itemReq.ScheduledTime, service.DurationMinutes, existing) {
			uc.logger.Warn("CreateAppointment: item %d: staff id=%d is not available at %s",
				idx, *itemReq.StaffID, itemReq.ScheduledTime)
			return nil, fmt.Errorf("%w: staff=%d, time=%s", ErrSchedulingConflict,
				*itemReq.StaffID, itemReq.ScheduledTime.Format(domain.DateFormat+" "+domain.TimeFormat))
		}

		// Проверяем рабочие часы
		if !withinWorkingHours(staff, itemReq.ScheduledTime) {
			uc.logger.Warn("CreateAppointment: item %d: time %s is outside working hours of staff id=%d (%s-%s)",
				idx, itemReq.ScheduledTime, *itemReq.StaffID, staff.WorkStart, staff.WorkEnd)
			return nil, fmt.Errorf("%w: staff=%d works %s-%s", ErrOutsideWorkingHours,
				*itemReq.StaffID, staff.WorkStart, staff.WorkEnd)
		}
	}

	// Снимок цены и длительности: последующие изменения каталога
	// не должны затрагивать уже забронированные позиции
	return &domain.AppointmentItem{
		ServiceID:       itemReq.ServiceID,
		StaffID:         itemReq.StaffID,
		ServiceName:     service.Name,
		PriceCents:      service.PriceCents,
		DurationMinutes: service.DurationMinutes,
		ScheduledTime:   itemReq.ScheduledTime,
		Status:          domain.ItemStatusPending,
	}, nil
}

// isSerializationFailure определяет, является ли ошибка serialization
// failure или deadlock PostgreSQL (SQLSTATE 40001 / 40P01)
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}

	// Репозитории оборачивают ошибки драйвера через %v - текст сохраняется
	msg := err.Error()
	return strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}
