package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barber-crm/AppointmentService/internal/domain"
	catalogClient "github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
)

// Service сервис для просмотра расписаний
type Service struct {
	scheduleRepo  ScheduleRepository
	apptRepo      AppointmentRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	apptRepo AppointmentRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:  scheduleRepo,
		apptRepo:      apptRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// StaffScheduleResult расписание мастера на день
type StaffScheduleResult struct {
	Staff *catalogClient.Staff
	Items []*domain.AppointmentItem
}

// StaffSchedule возвращает все неотменённые позиции мастера на указанную дату
// вместе с данными мастера из CatalogService
func (s *Service) StaffSchedule(ctx context.Context, staffID int64, date time.Time) (*StaffScheduleResult, error) {
	s.logger.Info("StaffSchedule: fetching schedule for staff=%d, date=%s", staffID, date.Format(domain.DateFormat))

	if staffID <= 0 {
		s.logger.Warn("StaffSchedule: invalid staff id=%d", staffID)
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}

	// Проверяем существование мастера
	staff, err := s.catalogClient.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			s.logger.Warn("StaffSchedule: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("StaffSchedule: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: StaffSchedule - failed to get staff: %v", ErrInternal, err)
	}

	dayStart, dayEnd := dayBounds(date)

	items, err := s.scheduleRepo.FindStaffSchedule(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("StaffSchedule: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: StaffSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("StaffSchedule: successfully fetched %d items for staff=%d", len(items), staffID)
	return &StaffScheduleResult{Staff: staff, Items: items}, nil
}

// AppointmentsOnDate возвращает все записи на указанную дату
func (s *Service) AppointmentsOnDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	s.logger.Info("AppointmentsOnDate: fetching appointments for date=%s", date.Format(domain.DateFormat))

	appts, err := s.apptRepo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("AppointmentsOnDate: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: AppointmentsOnDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AppointmentsOnDate: successfully fetched %d appointments", len(appts))
	return appts, nil
}

// AppointmentsBetween возвращает все записи в интервале [start, end]
func (s *Service) AppointmentsBetween(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error) {
	s.logger.Info("AppointmentsBetween: fetching appointments from %s to %s",
		start.Format(time.RFC3339), end.Format(time.RFC3339))

	if end.Before(start) {
		s.logger.Warn("AppointmentsBetween: end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: end must not be before start", ErrInvalidInput)
	}

	appts, err := s.apptRepo.GetBetween(ctx, start, end)
	if err != nil {
		s.logger.Error("AppointmentsBetween: repository error: %v", err)
		return nil, fmt.Errorf("%w: AppointmentsBetween - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AppointmentsBetween: successfully fetched %d appointments", len(appts))
	return appts, nil
}

// dayBounds возвращает границы суток для даты
func dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	dayEnd := time.Date(y, m, d, 23, 59, 59, 0, date.Location())
	return dayStart, dayEnd
}
