package change_booking_status

import (
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// Request модель запроса на смену статуса
type Request struct {
	BookingID int64
	Status    string // целевой статус: new, confirmed, cancelled, completed
	ActorTgID int64  // кто меняет статус
	IsAdmin   bool   // изменение администратора попадает в журнал
	OwnerOnly bool   // клиент может менять только свою бронь
}

// Response модель ответа с бронированием после перехода
type Response struct {
	ID          int64
	UserTgID    int64
	CostumeID   int64
	Size        string
	EventDate   time.Time
	PickupDate  time.Time
	ReturnDate  time.Time
	Status      string
	PrevStatus  string
	Changed     bool // false, если бронирование уже было в целевом статусе
	ClientName  string
	Phone       string
	ChildName   *string
	ChildAge    *int
	ChildHeight *int
	CancelledAt *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func toResponse(b *domain.Booking, prev domain.BookingStatus, changed bool) *Response {
	return &Response{
		ID:          b.ID,
		UserTgID:    b.UserTgID,
		CostumeID:   b.CostumeID,
		Size:        b.Size,
		EventDate:   b.EventDate,
		PickupDate:  b.PickupDate,
		ReturnDate:  b.ReturnDate,
		Status:      string(b.Status),
		PrevStatus:  string(prev),
		Changed:     changed,
		ClientName:  b.ClientName,
		Phone:       b.Phone,
		ChildName:   b.ChildName,
		ChildAge:    b.ChildAge,
		ChildHeight: b.ChildHeight,
		CancelledAt: b.CancelledAt,
		CompletedAt: b.CompletedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
