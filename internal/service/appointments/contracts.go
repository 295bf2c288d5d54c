package appointments

import (
	"context"

	"github.com/barber-crm/AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCustomerID(ctx context.Context, customerID int64, limit, offset uint64) ([]*domain.Appointment, int64, error)
	GetAll(ctx context.Context, limit, offset uint64) ([]*domain.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	CancelWithItems(ctx context.Context, id int64) error
	CompleteWithItems(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями.
// Каскадные переходы статусов (отмена, завершение) меняют запись
// и её позиции вместе - либо обе таблицы, либо ни одной.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
