package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"user_tg_id",
	"costume_id",
	"size",
	"event_date",
	"pickup_date",
	"return_date",
	"status",
	"client_name",
	"phone",
	"child_name",
	"child_age",
	"child_height",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// activeStatuses строки статусов, которые держат резерв
func activeStatuses() []string {
	result := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		result[i] = string(s)
	}
	return result
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_tg_id",
			"costume_id",
			"size",
			"event_date",
			"pickup_date",
			"return_date",
			"status",
			"client_name",
			"phone",
			"child_name",
			"child_age",
			"child_height",
		).
		Values(
			booking.UserTgID,
			booking.CostumeID,
			booking.Size,
			domain.FormatDate(booking.EventDate),
			domain.FormatDate(booking.PickupDate),
			domain.FormatDate(booking.ReturnDate),
			string(booking.Status),
			booking.ClientName,
			booking.Phone,
			booking.ChildName,
			booking.ChildAge,
			booking.ChildHeight,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переходы статуса не гонялись
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListByUser получает бронирования клиента, ближайшие мероприятия последними
func (r *Repository) ListByUser(ctx context.Context, userTgID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"user_tg_id": userTgID}).
		OrderBy("event_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListWithFilter получает бронирования для админки
// Все поля фильтра опциональны; без лимита возвращается domain.DefaultBookingsLimit записей
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From("bookings")

	if filter.CostumeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"costume_id": *filter.CostumeID})
	}
	if filter.Size != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"size": *filter.Size})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"event_date": domain.FormatDate(*filter.From)})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"event_date": domain.FormatDate(*filter.To)})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = domain.DefaultBookingsLimit
	}

	query, args, err := selectBuilder.
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountActive считает активные бронирования (new, confirmed) на ключ резерва
func (r *Repository) CountActive(ctx context.Context, key domain.ReservationKey) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"costume_id": key.CostumeID,
			"size":       key.Size,
			"event_date": domain.FormatDate(key.Date),
			"status":     activeStatuses(),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActive - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActive - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// ActiveDateCounts группирует активные бронирования размера по датам мероприятия
func (r *Repository) ActiveDateCounts(ctx context.Context, costumeID int64, size string) ([]domain.DateReservations, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("event_date", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"costume_id": costumeID,
			"size":       size,
			"status":     activeStatuses(),
		}).
		GroupBy("event_date").
		OrderBy("event_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveDateCounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveDateCounts - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.DateReservations, 0)
	for rows.Next() {
		var item domain.DateReservations
		if err := rows.Scan(&item.Date, &item.Count); err != nil {
			return nil, fmt.Errorf("%w: ActiveDateCounts - scan row: %w", ErrScanRow, err)
		}
		item.Date = domain.TruncateDate(item.Date)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ActiveDateCounts - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStatus сохраняет статус и отметки времени перехода
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(booking.Status)).
		Set("cancelled_at", booking.CancelledAt).
		Set("completed_at", booking.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		status      string
		childName   sql.NullString
		childAge    sql.NullInt64
		childHeight sql.NullInt64
		cancelledAt sql.NullTime
		completedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.UserTgID,
		&b.CostumeID,
		&b.Size,
		&b.EventDate,
		&b.PickupDate,
		&b.ReturnDate,
		&status,
		&b.ClientName,
		&b.Phone,
		&childName,
		&childAge,
		&childHeight,
		&cancelledAt,
		&completedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Status = domain.BookingStatus(status)
	b.EventDate = domain.TruncateDate(b.EventDate)
	b.PickupDate = domain.TruncateDate(b.PickupDate)
	b.ReturnDate = domain.TruncateDate(b.ReturnDate)

	if childName.Valid {
		b.ChildName = &childName.String
	}
	if childAge.Valid {
		age := int(childAge.Int64)
		b.ChildAge = &age
	}
	if childHeight.Valid {
		height := int(childHeight.Int64)
		b.ChildHeight = &height
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	if completedAt.Valid {
		b.CompletedAt = &completedAt.Time
	}

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
