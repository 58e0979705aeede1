package domain

import (
	"fmt"
	"time"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusNew       BookingStatus = "new"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ActiveStatuses статусы, в которых бронирование занимает размер на дату
var ActiveStatuses = []BookingStatus{StatusNew, StatusConfirmed}

// ParseBookingStatus разбирает статус; любое значение вне перечисления отклоняется
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusNew, StatusConfirmed, StatusCancelled, StatusCompleted:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsTerminal true для cancelled и completed
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsActive true, пока бронирование держит резерв
func (s BookingStatus) IsActive() bool {
	return s == StatusNew || s == StatusConfirmed
}

// ClientInfo контактные данные клиента из формы бронирования
type ClientInfo struct {
	ClientName  string
	Phone       string
	ChildName   *string
	ChildAge    *int
	ChildHeight *int // см
}

// Booking бронирование костюма на дату мероприятия
type Booking struct {
	ID        int64
	UserTgID  int64
	CostumeID int64
	Size      string

	EventDate  time.Time
	PickupDate time.Time // день до мероприятия
	ReturnDate time.Time // день мероприятия

	Status BookingStatus
	ClientInfo

	CancelledAt *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBooking создает бронирование в статусе new с производными датами выдачи и возврата
func NewBooking(userTgID, costumeID int64, size string, eventDate time.Time, client ClientInfo) *Booking {
	eventDate = TruncateDate(eventDate)
	return &Booking{
		UserTgID:   userTgID,
		CostumeID:  costumeID,
		Size:       size,
		EventDate:  eventDate,
		PickupDate: eventDate.AddDate(0, 0, -1),
		ReturnDate: eventDate,
		Status:     StatusNew,
		ClientInfo: client,
	}
}

// IsActive true, если бронирование учитывается в занятости размера на дату
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// ReservationKey ключ резерва этого бронирования
func (b *Booking) ReservationKey() ReservationKey {
	return ReservationKey{CostumeID: b.CostumeID, Size: b.Size, Date: b.EventDate}
}

// Transition применяет переход статуса
// Возвращает false без ошибки, если бронирование уже в целевом статусе
func (b *Booking) Transition(target BookingStatus, at time.Time) (bool, error) {
	if b.Status == target {
		return false, nil
	}
	if b.Status.IsTerminal() {
		return false, fmt.Errorf("%w: booking %d is %s", ErrAlreadyTerminal, b.ID, b.Status)
	}
	if !canTransition(b.Status, target) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, target)
	}

	b.Status = target
	b.UpdatedAt = at
	switch target {
	case StatusCancelled:
		b.CancelledAt = &at
	case StatusCompleted:
		b.CompletedAt = &at
	}
	return true, nil
}

func canTransition(from, to BookingStatus) bool {
	switch from {
	case StatusNew:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled || to == StatusCompleted
	default:
		return false
	}
}

// BookingsFilter фильтр для списка бронирований в админке
type BookingsFilter struct {
	CostumeID *int64
	Size      *string
	Status    *BookingStatus
	From      *time.Time // дата мероприятия не раньше
	To        *time.Time // дата мероприятия не позже
	Limit     uint64
}
