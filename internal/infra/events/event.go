package events

import "time"

// Типы доменных событий
const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeStockAdjusted        = "stock.adjusted"
)

// Event доменное событие, публикуется после фиксации транзакции
type Event struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"booking_id,omitempty"`
	CostumeID  int64     `json:"costume_id"`
	Size       string    `json:"size"`
	EventDate  string    `json:"event_date,omitempty"`
	Status     string    `json:"status,omitempty"`
	PrevStatus string    `json:"prev_status,omitempty"`
	Stock      *int      `json:"stock,omitempty"`
	ActorTgID  int64     `json:"actor_tg_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key ключ партиционирования: события одной брони идут по порядку
func (e Event) Key() string {
	if e.BookingID != 0 {
		return "booking-" + itoa(e.BookingID)
	}
	return "costume-" + itoa(e.CostumeID) + "-" + e.Size
}
