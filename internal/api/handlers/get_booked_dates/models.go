package get_booked_dates

import (
	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	getBookedDates "github.com/m04kA/SMC-CostumeRentalService/internal/usecase/get_booked_dates"
)

// BookedDate занятая дата в формате календаря фронтенда
type BookedDate struct {
	Date string `json:"date"` // "2025-06-01"
}

// FromUseCaseResponse конвертирует ответ use case в список дат
// Пустой календарь сериализуется как []
func FromUseCaseResponse(resp *getBookedDates.Response) []BookedDate {
	dates := make([]BookedDate, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, BookedDate{Date: domain.FormatDate(d)})
	}
	return dates
}
