package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserTgID <= 0 {
		return fmt.Errorf("%w: userTgID must be positive", ErrInvalidInput)
	}

	if req.CostumeID <= 0 {
		return fmt.Errorf("%w: costumeID must be positive", ErrInvalidInput)
	}

	if req.Size == "" || utf8.RuneCountInString(req.Size) > domain.MaxSizeLabelLength {
		return fmt.Errorf("%w: size is required", ErrInvalidInput)
	}

	if req.EventDate.IsZero() {
		return fmt.Errorf("%w: eventDate is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" || utf8.RuneCountInString(phone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	if req.ChildName != nil && utf8.RuneCountInString(*req.ChildName) > domain.MaxChildNameLength {
		return fmt.Errorf("%w: childName is too long", ErrInvalidInput)
	}

	if req.ChildAge != nil && (*req.ChildAge < 0 || *req.ChildAge > domain.MaxChildAge) {
		return fmt.Errorf("%w: childAge must be between 0 and %d", ErrInvalidInput, domain.MaxChildAge)
	}

	if req.ChildHeight != nil && (*req.ChildHeight < 0 || *req.ChildHeight > domain.MaxChildHeight) {
		return fmt.Errorf("%w: childHeight must be between 0 and %d", ErrInvalidInput, domain.MaxChildHeight)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
// Сегодняшняя дата допустима
func isDateInPast(date, today time.Time) bool {
	return domain.TruncateDate(date).Before(domain.TruncateDate(today))
}
