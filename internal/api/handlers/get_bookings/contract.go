package get_bookings

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/service/bookings/models"
)

type BookingService interface {
	GetBookings(ctx context.Context, req *models.GetBookingsRequest) ([]models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
