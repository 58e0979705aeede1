package get_booked_dates

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// InventoryLedger интерфейс учёта остатков и занятости
type InventoryLedger interface {
	CostumeWithSize(ctx context.Context, costumeID int64, size string) (*domain.Costume, error)
	Capacity(ctx context.Context, costumeID int64, size string) (int, error)
	ReservedDates(ctx context.Context, costumeID int64, size string) ([]domain.DateReservations, error)
	Policy() domain.CapacityPolicy
}

// BookedDatesCache интерфейс кеша календаря
type BookedDatesCache interface {
	GetBookedDates(ctx context.Context, costumeID int64, size string) (*domain.Availability, bool, error)
	BookedDatesGeneration(ctx context.Context, costumeID int64, size string) (int64, error)
	SetBookedDates(ctx context.Context, costumeID int64, size string, generation int64, availability *domain.Availability) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
