package change_booking_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/booking"
)

// UseCase use case смены статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	adminLogRepo AdminLogRepository
	txManager    TransactionManager
	cache        BookedDatesCache
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	adminLogRepo AdminLogRepository,
	txManager TransactionManager,
	cache BookedDatesCache,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		adminLogRepo: adminLogRepo,
		txManager:    txManager,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет переход статуса
// Бронирование читается с блокировкой строки, поэтому конкурирующие переходы выполняются по очереди
// Отмена и завершение освобождают резерв сами по себе: занятость считается по активным броням
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeBookingStatus: booking=%d, status=%s, actor=%d, admin=%t",
		req.BookingID, req.Status, req.ActorTgID, req.IsAdmin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ChangeBookingStatus: validation failed: %v", err)
		return nil, err
	}

	target, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		uc.logger.Warn("ChangeBookingStatus: %v", err)
		return nil, err
	}

	var (
		booking *domain.Booking
		prev    domain.BookingStatus
		changed bool
	)

	// 2. Чтение, переход и запись в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if req.OwnerOnly && current.UserTgID != req.ActorTgID {
			return fmt.Errorf("%w: booking %d belongs to another user", ErrAccessDenied, current.ID)
		}

		prev = current.Status
		ok, err := current.Transition(target, uc.timeProvider.Now())
		if err != nil {
			return err
		}

		booking, changed = current, ok
		if !ok {
			return nil
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, current); err != nil {
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		if req.IsAdmin {
			_, err := uc.adminLogRepo.Create(txCtx, &domain.AdminLog{
				ActorTgID: req.ActorTgID,
				Action:    domain.ActionBookingStatus,
				Details: map[string]interface{}{
					"booking_id": current.ID,
					"from":       string(prev),
					"to":         string(target),
				},
			})
			if err != nil {
				return fmt.Errorf("%w: failed to write admin log: %w", ErrInternal, err)
			}
		}

		return nil
	})
	if !domain.IsClassified(err) {
		err = fmt.Errorf("%w: transaction: %w", ErrInternal, err)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnavailable):
			uc.logger.Error("ChangeBookingStatus: booking=%d: %v", req.BookingID, err)
		default:
			uc.logger.Warn("ChangeBookingStatus: booking=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	if !changed {
		uc.logger.Info("ChangeBookingStatus: booking=%d already %s", booking.ID, booking.Status)
		return toResponse(booking, prev, false), nil
	}

	uc.logger.Info("ChangeBookingStatus: booking=%d %s -> %s", booking.ID, prev, booking.Status)
	uc.metrics.ObserveTransition(string(prev), string(booking.Status))

	// 3. Побочные эффекты после фиксации
	if prev.IsActive() != booking.Status.IsActive() {
		if err := uc.cache.InvalidateBookedDates(ctx, booking.CostumeID, booking.Size); err != nil {
			uc.logger.Warn("ChangeBookingStatus: failed to invalidate cache for costume=%d, size=%s: %v",
				booking.CostumeID, booking.Size, err)
		}
	}

	event := events.Event{
		Type:       events.TypeBookingStatusChanged,
		BookingID:  booking.ID,
		CostumeID:  booking.CostumeID,
		Size:       booking.Size,
		EventDate:  domain.FormatDate(booking.EventDate),
		Status:     string(booking.Status),
		PrevStatus: string(prev),
		ActorTgID:  req.ActorTgID,
		OccurredAt: uc.timeProvider.Now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("ChangeBookingStatus: failed to publish event for booking id=%d: %v", booking.ID, err)
	}

	return toResponse(booking, prev, true), nil
}
