package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Lock(t *testing.T) {
	t.Run("second holder times out", func(t *testing.T) {
		l := NewLocal(20 * time.Millisecond)

		unlock, err := l.Lock(context.Background(), "reservation:1:M:2025-06-01")
		require.NoError(t, err)
		defer unlock()

		_, err = l.Lock(context.Background(), "reservation:1:M:2025-06-01")
		assert.ErrorIs(t, err, ErrLockTimeout)
	})

	t.Run("different keys do not block", func(t *testing.T) {
		l := NewLocal(20 * time.Millisecond)

		unlock1, err := l.Lock(context.Background(), "reservation:1:M:2025-06-01")
		require.NoError(t, err)
		defer unlock1()

		unlock2, err := l.Lock(context.Background(), "reservation:1:M:2025-06-02")
		require.NoError(t, err)
		unlock2()
	})

	t.Run("released key can be taken again", func(t *testing.T) {
		l := NewLocal(20 * time.Millisecond)

		unlock, err := l.Lock(context.Background(), "k")
		require.NoError(t, err)
		unlock()

		unlock, err = l.Lock(context.Background(), "k")
		require.NoError(t, err)
		unlock()
	})

	t.Run("cancelled context is not a timeout", func(t *testing.T) {
		l := NewLocal(time.Second)

		unlock, err := l.Lock(context.Background(), "k")
		require.NoError(t, err)
		defer unlock()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = l.Lock(ctx, "k")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrLockTimeout)
	})
}
