package domain

import "fmt"

// CapacityPolicy правило, сколько активных бронирований помещается на один (размер, дата)
type CapacityPolicy string

const (
	// PolicySingle одна активная бронь на размер в день при ненулевом стоке
	PolicySingle CapacityPolicy = "single"
	// PolicyStock столько активных броней на размер в день, сколько единиц на стоке
	PolicyStock CapacityPolicy = "stock"
)

// ParseCapacityPolicy разбирает политику из конфигурации
func ParseCapacityPolicy(s string) (CapacityPolicy, error) {
	switch CapacityPolicy(s) {
	case PolicySingle, PolicyStock:
		return CapacityPolicy(s), nil
	case "":
		return PolicySingle, nil
	default:
		return "", fmt.Errorf("unknown capacity policy %q", s)
	}
}

// Cap лимит активных броней на дату при данном стоке
// Размер с нулевым стоком не бронируется ни на какую дату
func (p CapacityPolicy) Cap(stock int) int {
	if stock <= 0 {
		return 0
	}
	if p == PolicyStock {
		return stock
	}
	return 1
}

// Occupancy занятость ключа (костюм, размер, дата)
type Occupancy struct {
	Stock    int // всего единиц в наличии
	Reserved int // активных броней на дату
	Cap      int // лимит по политике
}

// NewOccupancy считает лимит по политике
func NewOccupancy(policy CapacityPolicy, stock, reserved int) Occupancy {
	return Occupancy{Stock: stock, Reserved: reserved, Cap: policy.Cap(stock)}
}

// HasCapacity можно ли принять ещё одну бронь
func (o Occupancy) HasCapacity() bool {
	return o.Stock > 0 && o.Reserved < o.Cap
}

// IsBooked дата считается занятой в календаре
func (o Occupancy) IsBooked() bool {
	return o.Reserved > 0 && o.Reserved >= o.Cap
}
