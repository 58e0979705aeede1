package inventory

import (
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

var (
	// ErrCostumeNotFound возвращается, когда костюма нет в каталоге
	ErrCostumeNotFound = fmt.Errorf("inventory: costume %w", domain.ErrNotFound)

	// ErrUnknownSize возвращается, когда размер не входит в размерный ряд костюма
	ErrUnknownSize = fmt.Errorf("inventory: %w", domain.ErrUnknownSize)

	// ErrOutOfRange возвращается, когда корректировка выводит остаток за допустимые границы
	ErrOutOfRange = fmt.Errorf("inventory: %w", domain.ErrOutOfRange)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("inventory: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("inventory: %w", domain.ErrUnavailable)
)
