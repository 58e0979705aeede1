package adminlog

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// AdminLogRepository интерфейс журнала действий администратора
type AdminLogRepository interface {
	List(ctx context.Context, limit uint64) ([]*domain.AdminLog, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
