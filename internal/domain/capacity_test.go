package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCapacityPolicy(t *testing.T) {
	p, err := ParseCapacityPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySingle, p)

	p, err = ParseCapacityPolicy("stock")
	require.NoError(t, err)
	assert.Equal(t, PolicyStock, p)

	_, err = ParseCapacityPolicy("unlimited")
	assert.Error(t, err)
}

func TestCapacityPolicy_Cap(t *testing.T) {
	assert.Equal(t, 0, PolicySingle.Cap(0))
	assert.Equal(t, 1, PolicySingle.Cap(1))
	assert.Equal(t, 1, PolicySingle.Cap(5))
	assert.Equal(t, 0, PolicyStock.Cap(0))
	assert.Equal(t, 5, PolicyStock.Cap(5))
	assert.Equal(t, 0, PolicyStock.Cap(-1))
}

func TestOccupancy(t *testing.T) {
	tests := []struct {
		name        string
		policy      CapacityPolicy
		stock       int
		reserved    int
		hasCapacity bool
		booked      bool
	}{
		{"single free", PolicySingle, 3, 0, true, false},
		{"single taken", PolicySingle, 3, 1, false, true},
		{"zero stock never bookable", PolicySingle, 0, 0, false, false},
		{"zero stock with leftover booking", PolicySingle, 0, 1, false, true},
		{"stock partially taken", PolicyStock, 3, 2, true, false},
		{"stock full", PolicyStock, 3, 3, false, true},
		{"stock reduced below reservations", PolicyStock, 1, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOccupancy(tt.policy, tt.stock, tt.reserved)
			assert.Equal(t, tt.hasCapacity, o.HasCapacity())
			assert.Equal(t, tt.booked, o.IsBooked())
		})
	}
}
