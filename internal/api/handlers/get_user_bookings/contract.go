package get_user_bookings

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/service/bookings/models"
)

type BookingService interface {
	GetUserBookings(ctx context.Context, userTgID int64) ([]models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
