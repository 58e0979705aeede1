package get_admin_logs

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/service/adminlog/models"
)

type AdminLogService interface {
	List(ctx context.Context) ([]models.AdminLogResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
