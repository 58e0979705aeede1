package get_admin_logs

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

type Handler struct {
	service AdminLogService
	logger  Logger
}

func NewHandler(service AdminLogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/admin/logs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			handlers.RespondServiceUnavailable(w)
			return
		}
		h.logger.Error("GET /admin/logs - Failed to list logs: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}
