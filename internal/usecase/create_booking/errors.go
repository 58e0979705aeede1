package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: %w", domain.ErrInvalidInput)

	// ErrPastDate возвращается, когда дата мероприятия раньше сегодняшней
	ErrPastDate = fmt.Errorf("create_booking: %w", domain.ErrPastDate)

	// ErrNoCapacity возвращается, когда размер на дату уже занят
	ErrNoCapacity = fmt.Errorf("create_booking: %w", domain.ErrNoCapacity)

	// ErrLockUnavailable возвращается, если не удалось дождаться блокировки ключа
	ErrLockUnavailable = fmt.Errorf("create_booking: lock: %w", domain.ErrUnavailable)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_booking: %w", domain.ErrUnavailable)
)
