package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers"
	"github.com/m04kA/SMC-CostumeRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты мероприятия, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "заполните обязательные поля"
	msgCostumeNotFound    = "костюм не найден"
	msgUnknownSize        = "у костюма нет такого размера"
	msgPastDate           = "нельзя забронировать прошедшую дату"
	msgNoCapacity         = "этот размер уже забронирован на выбранную дату"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoCapacity):
			h.logger.Warn("POST /bookings - No capacity: user_id=%d, costume_id=%d, size=%s",
				userID, req.CostumeID, req.Size)
			handlers.RespondConflict(w, msgNoCapacity)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings - Costume not found: costume_id=%d", req.CostumeID)
			handlers.RespondNotFound(w, msgCostumeNotFound)

		case errors.Is(err, domain.ErrUnknownSize):
			h.logger.Warn("POST /bookings - Unknown size: costume_id=%d, size=%s", req.CostumeID, req.Size)
			handlers.RespondBadRequest(w, msgUnknownSize)

		case errors.Is(err, domain.ErrPastDate):
			h.logger.Warn("POST /bookings - Past date: user_id=%d, date=%s",
				userID, domain.FormatDate(useCaseReq.EventDate))
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, domain.ErrUnavailable):
			h.logger.Error("POST /bookings - Storage unavailable: user_id=%d, error=%v", userID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, costume_id=%d, error=%v",
				userID, req.CostumeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, costume_id=%d",
		result.ID, userID, result.CostumeID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
