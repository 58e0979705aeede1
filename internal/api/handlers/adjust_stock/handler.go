package adjust_stock

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CostumeRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/inventory/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "укажите костюм, размер и ненулевое изменение"
	msgCostumeNotFound    = "костюм не найден"
	msgUnknownSize        = "у костюма нет такого размера"
	msgOutOfRange         = "остаток не может стать отрицательным или превысить лимит"
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

// Handle POST /api/admin/stock/adjust
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/stock/adjust - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AdjustStockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/stock/adjust - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorTgID = adminID
	req.Size = strings.TrimSpace(req.Size)

	result, err := h.service.Adjust(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOutOfRange):
			h.logger.Warn("POST /admin/stock/adjust - Out of range: costume_id=%d, size=%s, amount=%d",
				req.CostumeID, req.Size, req.Amount)
			handlers.RespondBadRequest(w, msgOutOfRange)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /admin/stock/adjust - Costume not found: costume_id=%d", req.CostumeID)
			handlers.RespondNotFound(w, msgCostumeNotFound)

		case errors.Is(err, domain.ErrUnknownSize):
			h.logger.Warn("POST /admin/stock/adjust - Unknown size: costume_id=%d, size=%s", req.CostumeID, req.Size)
			handlers.RespondBadRequest(w, msgUnknownSize)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /admin/stock/adjust - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, domain.ErrUnavailable):
			h.logger.Error("POST /admin/stock/adjust - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /admin/stock/adjust - Failed to adjust stock: costume_id=%d, size=%s, error=%v",
				req.CostumeID, req.Size, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/stock/adjust - Stock adjusted: costume_id=%d, size=%s, count=%d, admin_id=%d",
		result.CostumeID, result.Size, result.Count, adminID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
