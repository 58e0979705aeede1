package get_stock

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

type Handler struct {
	service InventoryService
	logger  Logger
}

func NewHandler(service InventoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/admin/stock
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stock, err := h.service.ListStock(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			h.logger.Error("GET /admin/stock - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)
			return
		}
		h.logger.Error("GET /admin/stock - Failed to list stock: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/stock - Stock retrieved successfully: costumes=%d", len(stock))
	handlers.RespondJSON(w, http.StatusOK, stock)
}
