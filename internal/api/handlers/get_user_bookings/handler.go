package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CostumeRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

const msgMissingUserID = "отсутствует ID пользователя"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/bookings/my
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/my - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			h.logger.Error("GET /bookings/my - Storage unavailable: user_id=%d, error=%v", userID, err)
			handlers.RespondServiceUnavailable(w)
			return
		}
		h.logger.Error("GET /bookings/my - Failed to get bookings: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/my - Bookings retrieved successfully: user_id=%d, count=%d",
		userID, len(bookings))
	handlers.RespondJSON(w, http.StatusOK, bookings)
}
