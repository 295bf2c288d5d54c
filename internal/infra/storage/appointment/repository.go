package appointment

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

var appointmentColumns = []string{
	"id",
	"customer_id",
	"scheduled_at",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

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

// Repository репозиторий для работы с записями и их позициями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateWithItems атомарно создает запись вместе со всеми позициями.
// Ожидает активную транзакцию в контексте: каскад "запись + позиции"
// выполняется явными INSERT-ами, либо все строки фиксируются вместе,
// либо ни одна.
func (r *Repository) CreateWithItems(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"scheduled_at",
			"status",
			"notes",
		).
		Values(
			appt.CustomerID,
			appt.ScheduledAt,
			appt.Status,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateWithItems - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateWithItems - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	// Вставляем позиции записи
	for i := range appt.Items {
		item := &appt.Items[i]
		item.AppointmentID = appt.ID

		query, args, err := psqlbuilder.Insert("appointment_items").
			Columns(
				"appointment_id",
				"service_id",
				"staff_id",
				"service_name",
				"price_cents",
				"duration_minutes",
				"scheduled_time",
				"status",
			).
			Values(
				item.AppointmentID,
				item.ServiceID,
				item.StaffID,
				item.ServiceName,
				item.PriceCents,
				item.DurationMinutes,
				item.ScheduledTime,
				item.Status,
			).
			Suffix("RETURNING id").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: CreateWithItems - build item insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("%w: CreateWithItems - execute item insert: %v", ErrExecQuery, err)
		}
	}

	return appt, nil
}

// GetByID получает запись по ID вместе с позициями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}

	return appt, nil
}

// GetByCustomerID получает страницу записей пользователя (новые сначала)
// и общее количество записей для пагинации
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, limit, offset uint64) ([]*domain.Appointment, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("scheduled_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()

	if err != nil {
		return nil, 0, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	appts, err := r.queryAppointments(ctx, executor, query, args, "GetByCustomerID")
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, executor, squirrel.Eq{"customer_id": customerID})
	if err != nil {
		return nil, 0, err
	}

	return appts, total, nil
}

// GetAll получает страницу всех записей (новые сначала) и общее количество
func (r *Repository) GetAll(ctx context.Context, limit, offset uint64) ([]*domain.Appointment, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		OrderBy("scheduled_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()

	if err != nil {
		return nil, 0, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	appts, err := r.queryAppointments(ctx, executor, query, args, "GetAll")
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, executor, nil)
	if err != nil {
		return nil, 0, err
	}

	return appts, total, nil
}

// GetByDate получает все записи на календарную дату (по scheduled_at),
// отсортированные по времени начала
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Expr("scheduled_at::date = ?::date", date)).
		OrderBy("scheduled_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryAppointments(ctx, executor, query, args, "GetByDate")
}

// GetBetween получает записи за период [start, end], отсортированные по времени начала
func (r *Repository) GetBetween(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.GtOrEq{"scheduled_at": start}).
		Where(squirrel.LtOrEq{"scheduled_at": end}).
		OrderBy("scheduled_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBetween - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryAppointments(ctx, executor, query, args, "GetBetween")
}

// UpdateStatus обновляет статус записи без каскада на позиции
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// CancelWithItems переводит запись в cancelled и каскадно отменяет
// ВСЕ её позиции независимо от их текущего статуса.
// Ожидает активную транзакцию в контексте.
func (r *Repository) CancelWithItems(ctx context.Context, id int64) error {
	if err := r.UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
		return err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_items").
		Set("status", domain.ItemStatusCancelled).
		Where(squirrel.Eq{"appointment_id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelWithItems - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CancelWithItems - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// CompleteWithItems переводит запись в completed и каскадно завершает
// позиции. Отменённые позиции не трогаем: отмена необратима.
// Ожидает активную транзакцию в контексте.
func (r *Repository) CompleteWithItems(ctx context.Context, id int64) error {
	if err := r.UpdateStatus(ctx, id, domain.StatusCompleted); err != nil {
		return err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_items").
		Set("status", domain.ItemStatusCompleted).
		Where(squirrel.Eq{"appointment_id": id}).
		Where(squirrel.NotEq{"status": domain.ItemStatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CompleteWithItems - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CompleteWithItems - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// count считает записи по условию (nil = все записи)
func (r *Repository) count(ctx context.Context, executor DBExecutor, where interface{}) (int64, error) {
	builder := psqlbuilder.Select("COUNT(*)").From("appointments")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: count - build select query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: count - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

// queryAppointments выполняет запрос списка записей и подгружает позиции
func (r *Repository) queryAppointments(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) ([]*domain.Appointment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appts := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := r.scanAppointmentRow(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	if err := r.loadItems(ctx, appts); err != nil {
		return nil, err
	}

	return appts, nil
}

// loadItems подгружает позиции для набора записей одним запросом
func (r *Repository) loadItems(ctx context.Context, appts []*domain.Appointment) error {
	if len(appts) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(appts))
	byID := make(map[int64]*domain.Appointment, len(appts))
	for i, appt := range appts {
		ids[i] = appt.ID
		byID[appt.ID] = appt
		appt.Items = make([]domain.AppointmentItem, 0)
	}

	query, args, err := psqlbuilder.Select(itemColumns...).
		From("appointment_items").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("scheduled_time ASC, id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

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
			return fmt.Errorf("%w: loadItems - scan item: %v", ErrScanRow, err)
		}

		if appt, ok := byID[item.AppointmentID]; ok {
			appt.Items = append(appt.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// scanAppointment сканирует одну запись из QueryRow
func (r *Repository) scanAppointment(row *sql.Row) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.ScheduledAt,
		&appt.Status,
		&appt.Notes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanAppointment - scan appointment: %v", ErrScanRow, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointmentRow сканирует одну запись из Rows
func (r *Repository) scanAppointmentRow(rows *sql.Rows) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := rows.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.ScheduledAt,
		&appt.Status,
		&appt.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scanAppointmentRow - scan appointment: %v", ErrScanRow, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}
