package adjust_stock

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/service/inventory/models"
)

type InventoryService interface {
	Adjust(ctx context.Context, req *models.AdjustStockRequest) (*models.AdjustStockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
