package cancel_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, bookingID int64, userTgID int64) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, userTgID)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(id string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/bookings/"+id+"/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	if userID > 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, false))
	}
	return req
}

func TestHandler_Handle_Success(t *testing.T) {
	svc := new(mockService)
	svc.On("Cancel", mock.Anything, int64(7), int64(100)).
		Return(&models.BookingResponse{ID: 7, Status: "cancelled"}, nil)
	h := NewHandler(svc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("7", 100))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp.Status)
	svc.AssertExpectations(t)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "foreign booking", err: domain.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "already completed", err: domain.ErrAlreadyTerminal, wantStatus: http.StatusConflict},
		{name: "storage", err: domain.ErrUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Cancel", mock.Anything, int64(7), int64(100)).Return(nil, tt.err)
			h := NewHandler(svc, logger.NewNop())

			w := httptest.NewRecorder()
			h.Handle(w, newRequest("7", 100))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandler_Handle_BadInput(t *testing.T) {
	svc := new(mockService)
	h := NewHandler(svc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("abc", 100))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Handle(w, newRequest("7", 0))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}
