package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Key(t *testing.T) {
	t.Run("booking event keyed by booking", func(t *testing.T) {
		e := Event{Type: TypeBookingCreated, BookingID: 42, CostumeID: 7, Size: "M"}
		assert.Equal(t, "booking-42", e.Key())
	})

	t.Run("stock event keyed by costume and size", func(t *testing.T) {
		e := Event{Type: TypeStockAdjusted, CostumeID: 7, Size: "M"}
		assert.Equal(t, "costume-7-M", e.Key())
	})
}
