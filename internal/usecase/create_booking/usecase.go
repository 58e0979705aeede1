package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
)

// UseCase use case приёма бронирования
type UseCase struct {
	ledger       InventoryLedger
	bookingRepo  BookingRepository
	locker       Locker
	txManager    TransactionManager
	cache        BookedDatesCache
	publisher    EventPublisher
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// location задаёт часовой пояс, в котором определяется «сегодня»
func NewUseCase(
	ledger InventoryLedger,
	bookingRepo BookingRepository,
	locker Locker,
	txManager TransactionManager,
	cache BookedDatesCache,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		ledger:       ledger,
		bookingRepo:  bookingRepo,
		locker:       locker,
		txManager:    txManager,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case приёма бронирования
// Проверка вместимости и вставка брони идут под блокировкой ключа резерва
// в сериализуемой транзакции, поэтому лимит не превышается при параллельных запросах
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, costume=%d, size=%s, date=%s",
		req.UserTgID, req.CostumeID, req.Size, domain.FormatDate(req.EventDate))

	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveAdmission(domain.KindOf(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Костюм и размер
	if _, err := uc.ledger.CostumeWithSize(ctx, req.CostumeID, req.Size); err != nil {
		uc.logger.Warn("CreateBooking: costume=%d, size=%s rejected: %v", req.CostumeID, req.Size, err)
		return nil, err
	}

	// 3. Дата мероприятия не в прошлом
	today := domain.DateOf(uc.timeProvider.Now(), uc.location)
	eventDate := domain.TruncateDate(req.EventDate)
	if isDateInPast(eventDate, today) {
		uc.logger.Warn("CreateBooking: date=%s is before today=%s",
			domain.FormatDate(eventDate), domain.FormatDate(today))
		return nil, fmt.Errorf("%w: %s", ErrPastDate, domain.FormatDate(eventDate))
	}

	key := domain.ReservationKey{CostumeID: req.CostumeID, Size: req.Size, Date: eventDate}

	// 4. Блокировка ключа резерва
	unlock, err := uc.locker.Lock(ctx, key.String())
	if err != nil {
		uc.logger.Error("CreateBooking: failed to lock %s: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}
	defer unlock()

	booking := domain.NewBooking(req.UserTgID, req.CostumeID, req.Size, eventDate, domain.ClientInfo{
		ClientName:  strings.TrimSpace(req.ClientName),
		Phone:       strings.TrimSpace(req.Phone),
		ChildName:   req.ChildName,
		ChildAge:    req.ChildAge,
		ChildHeight: req.ChildHeight,
	})

	var result *domain.Booking

	// 5. Проверка вместимости и создание брони в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		occupancy, err := uc.ledger.Occupancy(txCtx, key)
		if err != nil {
			return err
		}

		if !occupancy.HasCapacity() {
			return fmt.Errorf("%w: %s stock=%d reserved=%d cap=%d",
				ErrNoCapacity, key, occupancy.Stock, occupancy.Reserved, occupancy.Cap)
		}

		uc.logger.Info("CreateBooking: %s has capacity, %d/%d reserved",
			key, occupancy.Reserved, occupancy.Cap)

		// Повтор транзакции начинается с чистой копии
		candidate := *booking
		created, err := uc.bookingRepo.Create(txCtx, &candidate)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if !domain.IsClassified(err) {
		err = fmt.Errorf("%w: transaction: %w", ErrInternal, err)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNoCapacity) {
			uc.logger.Warn("CreateBooking: %v", err)
		} else {
			uc.logger.Error("CreateBooking: transaction failed for %s: %v", key, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 6. Побочные эффекты после фиксации
	if err := uc.cache.InvalidateBookedDates(ctx, result.CostumeID, result.Size); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate cache for costume=%d, size=%s: %v",
			result.CostumeID, result.Size, err)
	}

	event := events.Event{
		Type:       events.TypeBookingCreated,
		BookingID:  result.ID,
		CostumeID:  result.CostumeID,
		Size:       result.Size,
		EventDate:  domain.FormatDate(result.EventDate),
		Status:     string(result.Status),
		ActorTgID:  result.UserTgID,
		OccurredAt: uc.timeProvider.Now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return toResponse(result), nil
}
