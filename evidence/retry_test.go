package evidence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) Backoff {
	return Backoff{Attempts: attempts, Delay: time.Millisecond}
}

func TestRetry(t *testing.T) {
	t.Run("first try", func(t *testing.T) {
		tries := 0
		v, err := Retry(context.Background(), fastBackoff(3), nil, func(context.Context) (int, error) {
			tries++
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 1, tries)
	})

	t.Run("eventual success", func(t *testing.T) {
		tries := 0
		v, err := Retry(context.Background(), fastBackoff(5), nil, func(context.Context) (string, error) {
			tries++
			if tries < 3 {
				return "", errors.New("temporary")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 3, tries)
	})

	t.Run("all tries fail", func(t *testing.T) {
		tries := 0
		persistent := errors.New("persistent")
		_, err := Retry(context.Background(), fastBackoff(3), nil, func(context.Context) (int, error) {
			tries++
			return 0, persistent
		})
		assert.ErrorIs(t, err, persistent)
		assert.Contains(t, err.Error(), "after 3 tries")
		assert.Equal(t, 3, tries)
	})

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		tries := 0
		_, err := Retry(ctx, fastBackoff(10), nil, func(context.Context) (int, error) {
			tries++
			if tries == 2 {
				cancel()
			}
			return 0, errors.New("error")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 2, tries)
	})

	t.Run("invalid attempts", func(t *testing.T) {
		tries := 0
		_, err := Retry(context.Background(), fastBackoff(0), nil, func(context.Context) (int, error) {
			tries++
			return 0, nil
		})
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
		assert.Zero(t, tries)
	})
}

func TestBackoff_Wait(t *testing.T) {
	b := Backoff{Attempts: 6, Delay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond}
	assert.Equal(t, 10*time.Millisecond, b.wait(1))
	assert.Equal(t, 20*time.Millisecond, b.wait(2))
	assert.Equal(t, 40*time.Millisecond, b.wait(3))
	assert.Equal(t, 50*time.Millisecond, b.wait(4))

	uncapped := Backoff{Attempts: 3, Delay: time.Second}
	assert.Equal(t, 4*time.Second, uncapped.wait(3))
}

func TestRetry_DelaysGrow(t *testing.T) {
	tries := 0
	var delays []time.Duration
	last := time.Now()

	_, err := Retry(context.Background(), Backoff{Attempts: 5, Delay: 10 * time.Millisecond}, nil, func(context.Context) (struct{}, error) {
		tries++
		if tries > 1 {
			delays = append(delays, time.Since(last))
		}
		last = time.Now()
		if tries < 4 {
			return struct{}{}, errors.New("error")
		}
		return struct{}{}, nil
	})
	require.NoError(t, err)
	require.Len(t, delays, 3)
	assert.Greater(t, delays[1], delays[0])
	assert.Greater(t, delays[2], delays[1])
}
