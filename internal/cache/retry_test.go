package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func fastRetries(t *testing.T) {
	prev := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = prev })
}

func TestWithRetries_SuccessfulFirstAttempt(t *testing.T) {
	calls := 0
	err := WithRetries(func() error { calls++; return nil }, 3, isTransient)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_SucceedsAfterTransientErrors(t *testing.T) {
	fastRetries(t)
	calls := 0
	err := WithRetries(func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, 3, isTransient)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetries_StopsOnPermanentError(t *testing.T) {
	fastRetries(t)
	permanent := errors.New("permanent")
	calls := 0
	err := WithRetries(func() error { calls++; return permanent }, 3, isTransient)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_ExhaustsRetries(t *testing.T) {
	fastRetries(t)
	calls := 0
	err := WithRetries(func() error { calls++; return errTransient }, 2, isTransient)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestWithRetries_ZeroRetries(t *testing.T) {
	calls := 0
	err := WithRetries(func() error { calls++; return errTransient }, 0, isTransient)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
