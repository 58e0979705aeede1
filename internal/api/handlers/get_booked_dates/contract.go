package get_booked_dates

import (
	"context"

	getBookedDates "github.com/m04kA/SMC-CostumeRentalService/internal/usecase/get_booked_dates"
)

type GetBookedDatesUseCase interface {
	Execute(ctx context.Context, req *getBookedDates.Request) (*getBookedDates.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
