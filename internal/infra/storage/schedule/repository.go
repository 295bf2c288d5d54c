package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/barber-crm/AppointmentService/internal/domain"
	"github.com/barber-crm/AppointmentService/pkg/dbmetrics"
	"github.com/barber-crm/AppointmentService/pkg/psqlbuilder"
)

var itemColumns = []string{
	"id",
	"appointment_id",
	"service_id",
	"staff_id",
	"service_name",
	"price_cents",
	"duration_minutes",
	"scheduled_time",
	"status",
}

// Repository read-сторона расписания: неотменённые позиции мастера.
// Это единственный разделяемый ресурс сервиса - его читает проверка
// доступности и мутируют создание записи и каскады статусов.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindNonCancelledItems получает неотменённые позиции мастера,
// начинающиеся в окне [from, to]. Окно должно быть шире интервала
// кандидата, чтобы захватить позиции, начавшиеся раньше, но ещё идущие.
//
// Внутри транзакции добавляет FOR UPDATE: строки расписания мастера
// блокируются до конца транзакции создания записи, что вместе с
// SERIALIZABLE не даёт двум конкурентным бронированиям пройти проверку
// по одному и тому же расписанию.
func (r *Repository) FindNonCancelledItems(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.AppointmentItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(itemColumns...).
		From("appointment_items").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"scheduled_time": from}).
		Where(squirrel.LtOrEq{"scheduled_time": to}).
		Where(squirrel.NotEq{"status": domain.ItemStatusCancelled}).
		OrderBy("scheduled_time ASC, id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindNonCancelledItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindNonCancelledItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanItems(rows, "FindNonCancelledItems")
}

// FindStaffSchedule получает дневное расписание мастера: неотменённые
// позиции за [dayStart, dayEnd], по возрастанию времени начала.
// Чтение без блокировок, side effects отсутствуют.
func (r *Repository) FindStaffSchedule(ctx context.Context, staffID int64, dayStart, dayEnd time.Time) ([]*domain.AppointmentItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(itemColumns...).
		From("appointment_items").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"scheduled_time": dayStart}).
		Where(squirrel.LtOrEq{"scheduled_time": dayEnd}).
		Where(squirrel.NotEq{"status": domain.ItemStatusCancelled}).
		OrderBy("scheduled_time ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindStaffSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindStaffSchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanItems(rows, "FindStaffSchedule")
}

// scanItems сканирует результаты запроса в слайс позиций
func (r *Repository) scanItems(rows *sql.Rows, op string) ([]*domain.AppointmentItem, error) {
	items := make([]*domain.AppointmentItem, 0)

	for rows.Next() {
		var item domain.AppointmentItem

		err := rows.Scan(
			&item.ID,
			&item.AppointmentID,
			&item.ServiceID,
			&item.StaffID,
			&item.ServiceName,
			&item.PriceCents,
			&item.DurationMinutes,
			&item.ScheduledTime,
			&item.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan item: %v", ErrScanRow, op, err)
		}

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return items, nil
}
