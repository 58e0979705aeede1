package get_stock

import (
	"context"

	"github.com/m04kA/SMC-CostumeRentalService/internal/service/inventory/models"
)

type InventoryService interface {
	ListStock(ctx context.Context) ([]models.CostumeStockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
