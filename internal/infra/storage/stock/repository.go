package stock

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/psqlbuilder"
)

// Repository репозиторий остатков костюмов по размерам
// Отсутствующая строка означает нулевой остаток
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория остатков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает остаток размера, 0 если строки нет
func (r *Repository) Get(ctx context.Context, key domain.StockKey) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("count").
		From("costume_stock").
		Where(squirrel.Eq{"costume_id": key.CostumeID, "size": key.Size}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Get - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// GetForUpdate возвращает остаток и блокирует строку до конца транзакции
// Строка создаётся с нулевым остатком, если её ещё нет, чтобы блокировать было что
func (r *Repository) GetForUpdate(ctx context.Context, key domain.StockKey) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("costume_stock").
		Columns("costume_id", "size", "count").
		Values(key.CostumeID, key.Size, 0).
		Suffix("ON CONFLICT (costume_id, size) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetForUpdate - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return 0, fmt.Errorf("%w: GetForUpdate - execute insert: %w", ErrExecQuery, err)
	}

	selectBuilder := psqlbuilder.Select("count").
		From("costume_stock").
		Where(squirrel.Eq{"costume_id": key.CostumeID, "size": key.Size})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: GetForUpdate - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// Set записывает остаток размера
func (r *Repository) Set(ctx context.Context, key domain.StockKey, count int) error {
	if count < 0 {
		return ErrNegativeCount
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("costume_stock").
		Columns("costume_id", "size", "count").
		Values(key.CostumeID, key.Size, count).
		Suffix("ON CONFLICT (costume_id, size) DO UPDATE SET count = EXCLUDED.count, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Set - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Set - execute upsert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListAll возвращает все строки остатков
func (r *Repository) ListAll(ctx context.Context) ([]domain.StockEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("costume_id", "size", "count").
		From("costume_stock").
		OrderBy("costume_id ASC", "size ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.StockEntry, 0)
	for rows.Next() {
		var entry domain.StockEntry
		if err := rows.Scan(&entry.CostumeID, &entry.Size, &entry.Count); err != nil {
			return nil, fmt.Errorf("%w: ListAll - scan row: %w", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAll - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
