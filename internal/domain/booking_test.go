package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking_DerivesPickupAndReturnDates(t *testing.T) {
	event := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)

	b := NewBooking(42, 7, "M", event, ClientInfo{ClientName: "Анна", Phone: "+79990000000"})

	assert.Equal(t, StatusNew, b.Status)
	assert.Equal(t, "2025-06-01", FormatDate(b.EventDate))
	assert.Equal(t, "2025-05-31", FormatDate(b.PickupDate))
	assert.Equal(t, "2025-06-01", FormatDate(b.ReturnDate))
	assert.True(t, b.IsActive())
}

func TestNewBooking_PickupCrossesMonthBoundary(t *testing.T) {
	b := NewBooking(1, 1, "S", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), ClientInfo{})
	assert.Equal(t, "2025-02-28", FormatDate(b.PickupDate))
}

func TestParseBookingStatus(t *testing.T) {
	for _, s := range []string{"new", "confirmed", "cancelled", "completed"} {
		status, err := ParseBookingStatus(s)
		require.NoError(t, err)
		assert.Equal(t, BookingStatus(s), status)
	}

	for _, s := range []string{"", "pending", "CANCELLED", "done"} {
		_, err := ParseBookingStatus(s)
		assert.ErrorIs(t, err, ErrInvalidStatus, s)
	}
}

func TestBooking_Transition(t *testing.T) {
	at := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		from        BookingStatus
		to          BookingStatus
		wantChanged bool
		wantErr     error
	}{
		{"new to confirmed", StatusNew, StatusConfirmed, true, nil},
		{"new to cancelled", StatusNew, StatusCancelled, true, nil},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true, nil},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true, nil},
		{"same status is a no-op", StatusConfirmed, StatusConfirmed, false, nil},
		{"cancelled twice is a no-op", StatusCancelled, StatusCancelled, false, nil},
		{"completed twice is a no-op", StatusCompleted, StatusCompleted, false, nil},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false, ErrAlreadyTerminal},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false, ErrAlreadyTerminal},
		{"cancelled to new", StatusCancelled, StatusNew, false, ErrAlreadyTerminal},
		{"new to completed", StatusNew, StatusCompleted, false, ErrInvalidTransition},
		{"confirmed to new", StatusConfirmed, StatusNew, false, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{ID: 1, Status: tt.from}

			changed, err := b.Transition(tt.to, at)

			assert.Equal(t, tt.wantChanged, changed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, b.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, b.Status)
		})
	}
}

func TestBooking_TransitionStampsTimestamps(t *testing.T) {
	at := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	cancelled := &Booking{Status: StatusNew}
	_, err := cancelled.Transition(StatusCancelled, at)
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, at, *cancelled.CancelledAt)
	assert.False(t, cancelled.IsActive())

	completed := &Booking{Status: StatusConfirmed}
	_, err = completed.Transition(StatusCompleted, at)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.Nil(t, completed.CancelledAt)
}
