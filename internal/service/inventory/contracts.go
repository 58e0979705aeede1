package inventory

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
)

// CostumeRepository интерфейс каталога костюмов
type CostumeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Costume, error)
	List(ctx context.Context) ([]*domain.Costume, error)
}

// StockRepository интерфейс репозитория остатков
type StockRepository interface {
	Get(ctx context.Context, key domain.StockKey) (int, error)
	GetForUpdate(ctx context.Context, key domain.StockKey) (int, error)
	Set(ctx context.Context, key domain.StockKey, count int) error
	ListAll(ctx context.Context) ([]domain.StockEntry, error)
}

// BookingRepository интерфейс подсчёта активных броней
type BookingRepository interface {
	CountActive(ctx context.Context, key domain.ReservationKey) (int, error)
	ActiveDateCounts(ctx context.Context, costumeID int64, size string) ([]domain.DateReservations, error)
}

// AdminLogRepository интерфейс журнала действий администратора
type AdminLogRepository interface {
	Create(ctx context.Context, entry *domain.AdminLog) (*domain.AdminLog, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookedDatesCache интерфейс сброса кеша календаря
type BookedDatesCache interface {
	InvalidateBookedDates(ctx context.Context, costumeID int64, size string) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics интерфейс счётчиков корректировок стока
type Metrics interface {
	ObserveStockAdjustment(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
