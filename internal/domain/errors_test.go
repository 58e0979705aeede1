package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, "ok", KindOf(nil))
	assert.Equal(t, "no_capacity", KindOf(fmt.Errorf("%w: 1/1 taken", ErrNoCapacity)))
	assert.Equal(t, "unavailable", KindOf(fmt.Errorf("%w: insert: %v", ErrUnavailable, errors.New("conn refused"))))
	assert.Equal(t, "unknown", KindOf(errors.New("boom")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("%w: timeout", ErrUnavailable)))
	assert.False(t, IsRetryable(ErrNoCapacity))
}

func TestIsClassified(t *testing.T) {
	assert.True(t, IsClassified(nil))
	assert.True(t, IsClassified(fmt.Errorf("booking: %w", ErrNotFound)))
	assert.False(t, IsClassified(errors.New("txmanager: transaction error: begin: connection refused")))
	assert.False(t, IsClassified(fmt.Errorf("wrapped: %w", errors.New("commit failed"))))
}
