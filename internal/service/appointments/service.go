package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/barber-crm/AppointmentService/internal/domain"
	appointmentRepo "github.com/barber-crm/AppointmentService/internal/infra/storage/appointment"
	"github.com/barber-crm/AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	apptRepo  AppointmentRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	apptRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:  apptRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetByID получает запись по ID вместе с позициями
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments получает историю записей клиента с пагинацией
// Записи отсортированы по дате от новых к старым
func (s *Service) GetCustomerAppointments(ctx context.Context, customerID int64, page, pageSize uint64) (*models.AppointmentPageResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, page=%d, pageSize=%d",
		customerID, page, pageSize)

	if customerID <= 0 {
		s.logger.Warn("GetCustomerAppointments: invalid customer id=%d", customerID)
		return nil, fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}

	appts, total, err := s.apptRepo.GetByCustomerID(ctx, customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d", len(appts), customerID)
	return toPageResponse(appts, page, pageSize, total), nil
}

// GetAllAppointments получает все записи с пагинацией
// Используется админским интерфейсом
func (s *Service) GetAllAppointments(ctx context.Context, page, pageSize uint64) (*models.AppointmentPageResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	s.logger.Info("GetAllAppointments: fetching appointments, page=%d, pageSize=%d", page, pageSize)

	appts, total, err := s.apptRepo.GetAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.Error("GetAllAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAllAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllAppointments: successfully fetched %d appointments", len(appts))
	return toPageResponse(appts, page, pageSize, total), nil
}

// Confirm подтверждает запись
// Допустим только переход pending -> confirmed
func (s *Service) Confirm(ctx context.Context, id int64) error {
	s.logger.Info("Confirm: confirming appointment id=%d", id)

	appt, err := s.getForUpdate(ctx, "Confirm", id)
	if err != nil {
		return err
	}

	if !appt.CanBeConfirmed() {
		s.logger.Warn("Confirm: appointment id=%d cannot be confirmed, status=%s", id, appt.Status)
		return fmt.Errorf("%w: cannot confirm appointment in status %s", ErrInvalidTransition, appt.Status)
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, domain.StatusConfirmed); err != nil {
		return s.wrapRepoErr("Confirm", id, err)
	}

	s.logger.Info("Confirm: successfully confirmed appointment id=%d", id)
	return nil
}

// Cancel отменяет запись клиента
// Клиент может отменить только свою запись; завершённую запись отменить нельзя.
// Отмена каскадно переводит все позиции в статус cancelled
func (s *Service) Cancel(ctx context.Context, id int64, customerID int64) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by customer=%d", id, customerID)

	appt, err := s.getForUpdate(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	// Проверяем, что клиент владелец записи
	if !appt.IsOwnedBy(customerID) {
		s.logger.Warn("Cancel: access denied for customer=%d to appointment id=%d", customerID, id)
		return ErrAccessDenied
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return fmt.Errorf("%w: cannot cancel appointment in status %s", ErrInvalidTransition, appt.Status)
	}

	// Запись и её позиции отменяются в одной транзакции
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.apptRepo.CancelWithItems(ctx, id)
	})
	if err != nil {
		return s.wrapRepoErr("Cancel", id, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// Complete завершает запись
// Все позиции, кроме отменённых, переводятся в completed
func (s *Service) Complete(ctx context.Context, id int64) error {
	s.logger.Info("Complete: completing appointment id=%d", id)

	if _, err := s.getForUpdate(ctx, "Complete", id); err != nil {
		return err
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.apptRepo.CompleteWithItems(ctx, id)
	})
	if err != nil {
		return s.wrapRepoErr("Complete", id, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", id)
	return nil
}

// UpdateStatus обновляет статус записи напрямую
// Админская операция, единственный способ выставить no_show
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, status)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", status, id)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return s.wrapRepoErr("UpdateStatus", id, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return nil
}

// Вспомогательные методы

// getForUpdate получает запись перед изменением статуса
func (s *Service) getForUpdate(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// wrapRepoErr приводит ошибку репозитория к ошибке сервиса
func (s *Service) wrapRepoErr(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found during update", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// normalizePage приводит параметры пагинации к допустимым значениям
func normalizePage(page, pageSize uint64) (uint64, uint64) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	return page, pageSize
}

// toPageResponse собирает страницу ответа
func toPageResponse(appts []*domain.Appointment, page, pageSize uint64, total int64) *models.AppointmentPageResponse {
	list := models.FromDomainAppointmentList(appts)
	return &models.AppointmentPageResponse{
		Appointments: list.Appointments,
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
	}
}
