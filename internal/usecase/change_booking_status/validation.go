package change_booking_status

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ActorTgID <= 0 {
		return fmt.Errorf("%w: actorTgID must be positive", ErrInvalidInput)
	}

	return nil
}
