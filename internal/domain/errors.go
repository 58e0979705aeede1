package domain

import "errors"

// Ошибки движка бронирования. Каждая ошибка, возвращаемая наружу, оборачивает одну из них
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrUnknownSize       = errors.New("unknown size")
	ErrPastDate          = errors.New("date is in the past")
	ErrNoCapacity        = errors.New("no capacity for size on date")
	ErrOutOfRange        = errors.New("stock count out of range")
	ErrAlreadyTerminal   = errors.New("booking is already in terminal status")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAccessDenied      = errors.New("access denied")
	ErrUnavailable       = errors.New("storage unavailable")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidInput, "invalid_input"},
	{ErrNotFound, "not_found"},
	{ErrUnknownSize, "unknown_size"},
	{ErrPastDate, "past_date"},
	{ErrNoCapacity, "no_capacity"},
	{ErrOutOfRange, "out_of_range"},
	{ErrAlreadyTerminal, "already_terminal"},
	{ErrInvalidStatus, "invalid_status"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrAccessDenied, "access_denied"},
	{ErrUnavailable, "unavailable"},
}

// KindOf возвращает стабильное имя вида ошибки для логов и метрик
func KindOf(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return kindUnknown
}

const kindUnknown = "unknown"

// IsClassified относится ли ошибка к одному из видов выше
// Неклассифицированная ошибка транзакции считается недоступностью хранилища
func IsClassified(err error) bool {
	return err == nil || KindOf(err) != kindUnknown
}

// IsRetryable только недоступность хранилища имеет смысл повторять тем же запросом
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
