package costume

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/psqlbuilder"
)

// Repository каталог костюмов только на чтение, наполняется вне сервиса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает костюм с размерным рядом
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Costume, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "title", "sizes").
		From("costumes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Costume
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Title, pq.Array(&c.Sizes))
	if err == sql.ErrNoRows {
		return nil, ErrCostumeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan costume: %w", ErrScanRow, err)
	}

	return &c, nil
}

// List возвращает весь каталог по названию
func (r *Repository) List(ctx context.Context) ([]*domain.Costume, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "title", "sizes").
		From("costumes").
		OrderBy("title ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	costumes := make([]*domain.Costume, 0)
	for rows.Next() {
		var c domain.Costume
		if err := rows.Scan(&c.ID, &c.Title, pq.Array(&c.Sizes)); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		costumes = append(costumes, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return costumes, nil
}
