package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserTgID    int64     // Telegram ID клиента
	CostumeID   int64     // ID костюма
	Size        string    // размер из размерного ряда костюма
	EventDate   time.Time // дата мероприятия (без времени)
	ClientName  string
	Phone       string
	ChildName   *string
	ChildAge    *int
	ChildHeight *int // см
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	UserTgID    int64
	CostumeID   int64
	Size        string
	EventDate   time.Time
	PickupDate  time.Time // день до мероприятия
	ReturnDate  time.Time // день мероприятия
	Status      string
	ClientName  string
	Phone       string
	ChildName   *string
	ChildAge    *int
	ChildHeight *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		UserTgID:    b.UserTgID,
		CostumeID:   b.CostumeID,
		Size:        b.Size,
		EventDate:   b.EventDate,
		PickupDate:  b.PickupDate,
		ReturnDate:  b.ReturnDate,
		Status:      string(b.Status),
		ClientName:  b.ClientName,
		Phone:       b.Phone,
		ChildName:   b.ChildName,
		ChildAge:    b.ChildAge,
		ChildHeight: b.ChildHeight,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
