package domain

import (
	"fmt"
	"time"
)

// ReservationKey тройка (костюм, размер, дата), по которой считается занятость
type ReservationKey struct {
	CostumeID int64
	Size      string
	Date      time.Time
}

func (k ReservationKey) String() string {
	return fmt.Sprintf("reservation:%d:%s:%s", k.CostumeID, k.Size, FormatDate(k.Date))
}

// StockKey ключ строки стока (костюм, размер)
type StockKey struct {
	CostumeID int64
	Size      string
}

func (k StockKey) String() string {
	return fmt.Sprintf("stock:%d:%s", k.CostumeID, k.Size)
}

// DateReservations число активных броней размера на конкретную дату
type DateReservations struct {
	Date  time.Time
	Count int
}

// Availability занятые даты размера для календаря клиента
type Availability struct {
	Dates    []time.Time // по возрастанию
	Capacity int         // лимит броней на дату по политике
	Bookable bool        // false, если размера нет на стоке
}
