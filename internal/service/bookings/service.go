package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CostumeRentalService/internal/usecase/change_booking_status"
)

// Service сервис чтения бронирований и отмены клиентом
type Service struct {
	bookingRepo   BookingRepository
	statusChanger StatusChanger
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	statusChanger StatusChanger,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		statusChanger: statusChanger,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, администратор любое
func (s *Service) GetByID(ctx context.Context, id int64, userTgID int64, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userTgID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isAdmin && booking.UserTgID != userTgID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userTgID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования клиента, ближайшие мероприятия последними
func (s *Service) GetUserBookings(ctx context.Context, userTgID int64) ([]models.BookingResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", userTgID)

	if userTgID <= 0 {
		return nil, fmt.Errorf("%w: userTgID must be positive", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, userTgID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", userTgID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), userTgID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBookings список бронирований для администратора с фильтрацией
func (s *Service) GetBookings(ctx context.Context, req *models.GetBookingsRequest) ([]models.BookingResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBookings: invalid filter: %v", err)
		return nil, err
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование по запросу клиента
// Клиент может отменить только своё бронирование
func (s *Service) Cancel(ctx context.Context, bookingID int64, userTgID int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, userTgID)

	result, err := s.statusChanger.Execute(ctx, &change_booking_status.Request{
		BookingID: bookingID,
		Status:    string(domain.StatusCancelled),
		ActorTgID: userTgID,
		OwnerOnly: true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromStatusChange(result), nil
}

// UpdateStatus меняет статус бронирования от имени администратора
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, adminTgID int64, status string) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by admin=%d", bookingID, status, adminTgID)

	result, err := s.statusChanger.Execute(ctx, &change_booking_status.Request{
		BookingID: bookingID,
		Status:    status,
		ActorTgID: adminTgID,
		IsAdmin:   true,
	})
	if err != nil {
		return nil, err
	}

	return models.FromStatusChange(result), nil
}
