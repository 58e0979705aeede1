package domain

import (
	"fmt"
	"time"
)

// DateFormat формат календарной даты на входе и выходе (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// ParseDate разбирает календарную дату без времени и часового пояса
// Результат всегда полночь UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}

// DateOf возвращает календарную дату момента t в часовом поясе loc как полночь UTC
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TruncateDate отбрасывает время, сохраняя дату в собственном часовом поясе t
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
