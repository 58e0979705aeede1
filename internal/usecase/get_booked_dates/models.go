package get_booked_dates

import "time"

// Request модель запроса календаря размера
type Request struct {
	CostumeID int64
	Size      string
}

// Response модель ответа с занятыми датами
type Response struct {
	CostumeID int64
	Size      string
	Dates     []time.Time // занятые даты по возрастанию
	Capacity  int         // лимит броней на дату
	Bookable  bool        // false, если размера нет на стоке
}
