package get_booked_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// UseCase use case календаря занятых дат размера
type UseCase struct {
	ledger InventoryLedger
	cache  BookedDatesCache
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger InventoryLedger, cache BookedDatesCache, logger Logger) *UseCase {
	return &UseCase{
		ledger: ledger,
		cache:  cache,
		logger: logger,
	}
}

// Execute возвращает даты, на которые размер забронирован до предела
// Ошибки кеша не мешают ответу: календарь считается из хранилища
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetBookedDates: costume=%d, size=%s", req.CostumeID, req.Size)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetBookedDates: validation failed: %v", err)
		return nil, err
	}

	// 2. Костюм и размер проверяются всегда, мимо кеша
	if _, err := uc.ledger.CostumeWithSize(ctx, req.CostumeID, req.Size); err != nil {
		uc.logger.Warn("GetBookedDates: costume=%d, size=%s rejected: %v", req.CostumeID, req.Size, err)
		return nil, err
	}

	// 3. Кеш
	cached, ok, err := uc.cache.GetBookedDates(ctx, req.CostumeID, req.Size)
	if err != nil {
		uc.logger.Warn("GetBookedDates: cache read failed for costume=%d, size=%s: %v", req.CostumeID, req.Size, err)
	}
	if ok {
		return toResponse(req, cached), nil
	}

	// 4. Поколение читается до расчёта: сброс кеша во время расчёта отменит запись
	generation, genErr := uc.cache.BookedDatesGeneration(ctx, req.CostumeID, req.Size)
	if genErr != nil {
		uc.logger.Warn("GetBookedDates: cache generation read failed for costume=%d, size=%s: %v",
			req.CostumeID, req.Size, genErr)
	}

	// 5. Расчёт по остатку и активным броням
	availability, err := uc.compute(ctx, req)
	if err != nil {
		uc.logger.Error("GetBookedDates: costume=%d, size=%s: %v", req.CostumeID, req.Size, err)
		return nil, err
	}

	if genErr == nil {
		stored, err := uc.cache.SetBookedDates(ctx, req.CostumeID, req.Size, generation, availability)
		switch {
		case err != nil:
			uc.logger.Warn("GetBookedDates: cache write failed for costume=%d, size=%s: %v", req.CostumeID, req.Size, err)
		case !stored:
			uc.logger.Info("GetBookedDates: costume=%d, size=%s changed during compute, not cached",
				req.CostumeID, req.Size)
		}
	}

	uc.logger.Info("GetBookedDates: costume=%d, size=%s has %d booked dates, capacity=%d",
		req.CostumeID, req.Size, len(availability.Dates), availability.Capacity)
	return toResponse(req, availability), nil
}

func (uc *UseCase) compute(ctx context.Context, req *Request) (*domain.Availability, error) {
	stock, err := uc.ledger.Capacity(ctx, req.CostumeID, req.Size)
	if err != nil {
		return nil, err
	}

	counts, err := uc.ledger.ReservedDates(ctx, req.CostumeID, req.Size)
	if err != nil {
		return nil, err
	}

	return bookedDates(uc.ledger.Policy(), stock, counts), nil
}

// bookedDates отбирает даты, где активных броней не меньше лимита
// При нулевом лимите в календарь попадают только даты с хотя бы одной бронью
func bookedDates(policy domain.CapacityPolicy, stock int, counts []domain.DateReservations) *domain.Availability {
	dates := make([]time.Time, 0, len(counts))
	for _, c := range counts {
		if domain.NewOccupancy(policy, stock, c.Count).IsBooked() {
			dates = append(dates, c.Date)
		}
	}

	return &domain.Availability{
		Dates:    dates,
		Capacity: policy.Cap(stock),
		Bookable: stock > 0,
	}
}

func toResponse(req *Request, a *domain.Availability) *Response {
	return &Response{
		CostumeID: req.CostumeID,
		Size:      req.Size,
		Dates:     a.Dates,
		Capacity:  a.Capacity,
		Bookable:  a.Bookable,
	}
}
