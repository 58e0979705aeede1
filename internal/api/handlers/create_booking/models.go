package create_booking

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	createBooking "github.com/m04kA/SMC-CostumeRentalService/internal/usecase/create_booking"
)

// FlexInt целое, которое форма может прислать числом или строкой; пустая строка = не указано
type FlexInt struct {
	Value *int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.Value = nil
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		f.Value = nil
		return nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CostumeID   int64   `json:"costumeId"`
	Size        string  `json:"size"`
	EventDate   string  `json:"eventDate"`   // "2025-06-01"
	BookingDate string  `json:"bookingDate"` // прежнее имя поля даты мероприятия
	ClientName  string  `json:"clientName"`
	Phone       string  `json:"phone"`
	ChildName   *string `json:"childName,omitempty"`
	ChildAge    FlexInt `json:"childAge"`
	ChildHeight FlexInt `json:"childHeight"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	UserTgID    int64   `json:"userTgId"`
	CostumeID   int64   `json:"costumeId"`
	Size        string  `json:"size"`
	EventDate   string  `json:"eventDate"`
	PickupDate  string  `json:"pickupDate"`
	ReturnDate  string  `json:"returnDate"`
	Status      string  `json:"status"`
	ClientName  string  `json:"clientName"`
	Phone       string  `json:"phone"`
	ChildName   *string `json:"childName,omitempty"`
	ChildAge    *int    `json:"childAge,omitempty"`
	ChildHeight *int    `json:"childHeight,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userTgID int64) (*createBooking.Request, error) {
	dateStr := r.EventDate
	if dateStr == "" {
		dateStr = r.BookingDate
	}

	eventDate, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	var childName *string
	if r.ChildName != nil && strings.TrimSpace(*r.ChildName) != "" {
		name := strings.TrimSpace(*r.ChildName)
		childName = &name
	}

	return &createBooking.Request{
		UserTgID:    userTgID,
		CostumeID:   r.CostumeID,
		Size:        strings.TrimSpace(r.Size),
		EventDate:   eventDate,
		ClientName:  r.ClientName,
		Phone:       r.Phone,
		ChildName:   childName,
		ChildAge:    r.ChildAge.Value,
		ChildHeight: r.ChildHeight.Value,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		UserTgID:    resp.UserTgID,
		CostumeID:   resp.CostumeID,
		Size:        resp.Size,
		EventDate:   domain.FormatDate(resp.EventDate),
		PickupDate:  domain.FormatDate(resp.PickupDate),
		ReturnDate:  domain.FormatDate(resp.ReturnDate),
		Status:      resp.Status,
		ClientName:  resp.ClientName,
		Phone:       resp.Phone,
		ChildName:   resp.ChildName,
		ChildAge:    resp.ChildAge,
		ChildHeight: resp.ChildHeight,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
