package get_booked_dates

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	getBookedDates "github.com/m04kA/SMC-CostumeRentalService/internal/usecase/get_booked_dates"
)

const (
	msgInvalidCostumeID = "некорректный ID костюма"
	msgMissingSize      = "параметр size обязателен"
	msgCostumeNotFound  = "костюм не найден"
	msgUnknownSize      = "у костюма нет такого размера"
)

type Handler struct {
	useCase GetBookedDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetBookedDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/costumes/{costumeId}/booked-dates?size=M
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	costumeID, err := strconv.ParseInt(mux.Vars(r)["costumeId"], 10, 64)
	if err != nil || costumeID <= 0 {
		h.logger.Warn("GET /costumes/{id}/booked-dates - Invalid costume ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCostumeID)
		return
	}

	size := strings.TrimSpace(r.URL.Query().Get("size"))
	if size == "" {
		h.logger.Warn("GET /costumes/{id}/booked-dates - Missing size: costume_id=%d", costumeID)
		handlers.RespondBadRequest(w, msgMissingSize)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getBookedDates.Request{
		CostumeID: costumeID,
		Size:      size,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /costumes/{id}/booked-dates - Costume not found: costume_id=%d", costumeID)
			handlers.RespondNotFound(w, msgCostumeNotFound)

		case errors.Is(err, domain.ErrUnknownSize):
			h.logger.Warn("GET /costumes/{id}/booked-dates - Unknown size: costume_id=%d, size=%s", costumeID, size)
			handlers.RespondBadRequest(w, msgUnknownSize)

		case errors.Is(err, domain.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingSize)

		case errors.Is(err, domain.ErrUnavailable):
			h.logger.Error("GET /costumes/{id}/booked-dates - Storage unavailable: costume_id=%d, error=%v", costumeID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /costumes/{id}/booked-dates - Failed: costume_id=%d, size=%s, error=%v",
				costumeID, size, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /costumes/{id}/booked-dates - costume_id=%d, size=%s, dates=%d",
		costumeID, size, len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
