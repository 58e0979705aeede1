package domain

import "time"

// Действия, попадающие в журнал администратора
const (
	ActionStockAdjust   = "stock.adjust"
	ActionBookingStatus = "booking.status"
)

// AdminLog запись журнала действий администратора
type AdminLog struct {
	ID        int64
	ActorTgID int64
	Action    string
	Details   map[string]interface{}
	CreatedAt time.Time
}
