package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
)

// InventoryLedger интерфейс учёта остатков и занятости
type InventoryLedger interface {
	CostumeWithSize(ctx context.Context, costumeID int64, size string) (*domain.Costume, error)
	Occupancy(ctx context.Context, key domain.ReservationKey) (domain.Occupancy, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Locker интерфейс блокировки по ключу резерва
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
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

// Metrics интерфейс счётчиков приёма броней
type Metrics interface {
	ObserveAdmission(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
