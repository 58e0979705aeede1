package adminlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/psqlbuilder"
)

// Repository журнал действий администратора, только вставка и чтение
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в журнал
// Если в контексте передана активная транзакция, запись попадает в неё
func (r *Repository) Create(ctx context.Context, entry *domain.AdminLog) (*domain.AdminLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	details := entry.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncodeDetails, err)
	}

	query, args, err := psqlbuilder.Insert("admin_logs").
		Columns("actor_tg_id", "action", "details").
		Values(entry.ActorTgID, entry.Action, string(raw)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return entry, nil
}

// List возвращает последние записи, новые первыми
func (r *Repository) List(ctx context.Context, limit uint64) ([]*domain.AdminLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if limit == 0 {
		limit = domain.DefaultAdminLogsLimit
	}

	query, args, err := psqlbuilder.Select("id", "actor_tg_id", "action", "details", "created_at").
		From("admin_logs").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AdminLog, 0)
	for rows.Next() {
		var (
			entry domain.AdminLog
			raw   []byte
		)
		if err := rows.Scan(&entry.ID, &entry.ActorTgID, &entry.Action, &raw, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &entry.Details); err != nil {
				return nil, fmt.Errorf("%w: List - decode details: %w", ErrScanRow, err)
			}
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
