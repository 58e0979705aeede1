package models

import (
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/usecase/change_booking_status"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/ptr"
)

// Request модели

// GetBookingsRequest фильтр списка бронирований в админке
type GetBookingsRequest struct {
	Status    *string    `json:"status,omitempty"`
	CostumeID *int64     `json:"costumeId,omitempty"`
	Size      *string    `json:"size,omitempty"`
	From      *time.Time `json:"from,omitempty"` // дата мероприятия не раньше
	To        *time.Time `json:"to,omitempty"`   // дата мероприятия не позже
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		CostumeID: r.CostumeID,
		Size:      r.Size,
		From:      r.From,
		To:        r.To,
		Limit:     domain.DefaultBookingsLimit,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = ptr.Ptr(status)
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64   `json:"id"`
	UserTgID    int64   `json:"userTgId"`
	CostumeID   int64   `json:"costumeId"`
	Size        string  `json:"size"`
	EventDate   string  `json:"eventDate"`  // "2025-06-01"
	PickupDate  string  `json:"pickupDate"` // "2025-05-31"
	ReturnDate  string  `json:"returnDate"` // "2025-06-01"
	Status      string  `json:"status"`
	ClientName  string  `json:"clientName"`
	Phone       string  `json:"phone"`
	ChildName   *string `json:"childName,omitempty"`
	ChildAge    *int    `json:"childAge,omitempty"`
	ChildHeight *int    `json:"childHeight,omitempty"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		UserTgID:    b.UserTgID,
		CostumeID:   b.CostumeID,
		Size:        b.Size,
		EventDate:   domain.FormatDate(b.EventDate),
		PickupDate:  domain.FormatDate(b.PickupDate),
		ReturnDate:  domain.FormatDate(b.ReturnDate),
		Status:      string(b.Status),
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

// FromStatusChange конвертирует бронирование, записанное сменой статуса
func FromStatusChange(r *change_booking_status.Response) *BookingResponse {
	if r == nil {
		return nil
	}

	return &BookingResponse{
		ID:          r.ID,
		UserTgID:    r.UserTgID,
		CostumeID:   r.CostumeID,
		Size:        r.Size,
		EventDate:   domain.FormatDate(r.EventDate),
		PickupDate:  domain.FormatDate(r.PickupDate),
		ReturnDate:  domain.FormatDate(r.ReturnDate),
		Status:      r.Status,
		ClientName:  r.ClientName,
		Phone:       r.Phone,
		ChildName:   r.ChildName,
		ChildAge:    r.ChildAge,
		ChildHeight: r.ChildHeight,
		CancelledAt: r.CancelledAt,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
// Пустой список сериализуется как [], а не null
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if b := FromDomainBooking(booking); b != nil {
			resp = append(resp, *b)
		}
	}
	return resp
}
