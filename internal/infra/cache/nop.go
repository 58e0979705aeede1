package cache

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// NopCache используется, когда Redis выключен: всегда промах
type NopCache struct{}

func (NopCache) GetBookedDates(context.Context, int64, string) (*domain.Availability, bool, error) {
	return nil, false, nil
}

func (NopCache) BookedDatesGeneration(context.Context, int64, string) (int64, error) {
	return 0, nil
}

// SetBookedDates отвечает stored=true, чтобы запись без кеша не считалась гонкой
func (NopCache) SetBookedDates(context.Context, int64, string, int64, *domain.Availability) (bool, error) {
	return true, nil
}

func (NopCache) InvalidateBookedDates(context.Context, int64, string) error {
	return nil
}
