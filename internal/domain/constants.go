package domain

// Ограничения входных данных формы бронирования
const (
	MaxClientNameLength = 200
	MaxPhoneLength      = 32
	MaxChildNameLength  = 200
	MaxChildAge         = 18
	MaxChildHeight      = 200 // см
	MaxSizeLabelLength  = 16
)

// Лимиты выборок
const (
	DefaultBookingsLimit  = 200
	DefaultAdminLogsLimit = 100
)

// MaxStockCount верхняя граница остатка одного размера
const MaxStockCount = 100000
