package get_booked_dates

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CostumeID <= 0 {
		return fmt.Errorf("%w: costumeID must be positive", ErrInvalidInput)
	}

	if req.Size == "" {
		return fmt.Errorf("%w: size is required", ErrInvalidInput)
	}

	return nil
}
