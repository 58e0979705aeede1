package change_booking_status

import (
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("change_booking_status: %w", domain.ErrInvalidInput)

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("change_booking_status: booking %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда клиент меняет чужое бронирование
	ErrAccessDenied = fmt.Errorf("change_booking_status: %w", domain.ErrAccessDenied)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("change_booking_status: %w", domain.ErrUnavailable)
)
