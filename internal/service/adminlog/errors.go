package adminlog

import (
	"fmt"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

var (
	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("adminlog: %w", domain.ErrUnavailable)
)
